package models

import "time"

// Notification is an in-app reminder row, scoped to one organization.
type Notification struct {
	NotificationID int        `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	OrgID          int        `gorm:"column:org_id" json:"org_id"`
	ContractID     *int       `gorm:"column:contract_id" json:"contract_id,omitempty"`
	Title          string     `gorm:"column:title" json:"title"`
	Message        string     `gorm:"column:message" json:"message"`
	IsRead         bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
