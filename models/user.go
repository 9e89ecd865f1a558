package models

import (
	"time"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	OrgID        int        `gorm:"column:org_id" json:"org_id"`
	Role         string     `gorm:"column:role" json:"role"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrgID" json:"organization,omitempty"`
}

func (User) TableName() string {
	return "users"
}
