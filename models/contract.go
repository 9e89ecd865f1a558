package models

import "time"

type ContractStatus string

const (
	ContractActive     ContractStatus = "ACTIVE"
	ContractTerminated ContractStatus = "TERMINATED"
)

type Contract struct {
	ContractID     int    `gorm:"primaryKey;column:contract_id" json:"contract_id"`
	OrgID          int    `gorm:"column:org_id" json:"org_id"`
	ContractNumber string `gorm:"column:contract_number;unique" json:"contract_number"`
	Name           string `gorm:"column:name" json:"name"`

	// Date-only columns; time components are always midnight UTC.
	StartDate time.Time `gorm:"column:start_date;type:date" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;type:date" json:"end_date"`

	Amount           *float64       `gorm:"column:amount" json:"amount,omitempty"`
	Currency         *string        `gorm:"column:currency" json:"currency,omitempty"`
	ContractType     *string        `gorm:"column:contract_type" json:"contract_type,omitempty"`
	PaymentFrequency *string        `gorm:"column:payment_frequency" json:"payment_frequency,omitempty"`
	AutoRenew        bool           `gorm:"column:auto_renew" json:"auto_renew"`
	Status           ContractStatus `gorm:"column:status" json:"status"`
	ProviderContact  *string        `gorm:"column:provider_contact" json:"provider_contact,omitempty"`
	Notes            string         `gorm:"column:notes" json:"notes"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrgID" json:"-"`
}

func (Contract) TableName() string {
	return "contracts"
}
