package models

import "time"

type Organization struct {
	OrgID      int    `gorm:"primaryKey;column:org_id" json:"org_id"`
	Name       string `gorm:"column:name;unique" json:"name"`
	AdminEmail string `gorm:"column:admin_email" json:"admin_email"`

	// Optional reminder offsets. The same-day reminder is always active and
	// has no flag here.
	Reminder1Week   bool `gorm:"column:reminder_1_week" json:"reminder_1_week"`
	Reminder2Weeks  bool `gorm:"column:reminder_2_weeks" json:"reminder_2_weeks"`
	Reminder1Month  bool `gorm:"column:reminder_1_month" json:"reminder_1_month"`
	Reminder2Months bool `gorm:"column:reminder_2_months" json:"reminder_2_months"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// ReminderConfig is the settings projection exposed on the organization
// settings endpoints.
type ReminderConfig struct {
	Reminder1Week   bool `json:"reminder_1_week"`
	Reminder2Weeks  bool `json:"reminder_2_weeks"`
	Reminder1Month  bool `json:"reminder_1_month"`
	Reminder2Months bool `json:"reminder_2_months"`
}

func (o *Organization) ReminderConfig() ReminderConfig {
	return ReminderConfig{
		Reminder1Week:   o.Reminder1Week,
		Reminder2Weeks:  o.Reminder2Weeks,
		Reminder1Month:  o.Reminder1Month,
		Reminder2Months: o.Reminder2Months,
	}
}

func (o *Organization) ApplyReminderConfig(cfg ReminderConfig) {
	o.Reminder1Week = cfg.Reminder1Week
	o.Reminder2Weeks = cfg.Reminder2Weeks
	o.Reminder1Month = cfg.Reminder1Month
	o.Reminder2Months = cfg.Reminder2Months
}
