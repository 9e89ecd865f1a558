package services

import (
	"errors"
	"time"

	"contract-management-api/config"
	"contract-management-api/models"

	"gorm.io/gorm"
)

// NotificationService delivers reminder messages over email and in-app.
// Both channels are fire-and-forget from the engine's perspective.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

// SendEmailReminder mails the reminder to the organization's admin address.
func (s *NotificationService) SendEmailReminder(org *models.Organization, contract *models.Contract, message string) error {
	return config.SendMail([]string{org.AdminEmail}, "Rappel contrat : "+contract.Name, message)
}

// SendInAppReminder stores the reminder as an unread notification row for
// the organization.
func (s *NotificationService) SendInAppReminder(orgID int, contract *models.Contract, message string) error {
	notif := models.Notification{
		OrgID:      orgID,
		ContractID: &contract.ContractID,
		Title:      "Rappel contrat : " + contract.Name,
		Message:    message,
		IsRead:     false,
		CreateAt:   time.Now(),
	}
	return s.db.Create(&notif).Error
}

// ListForOrganization returns the organization's notifications, newest first.
func (s *NotificationService) ListForOrganization(orgID int) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.db.Where("org_id = ?", orgID).Order("create_at DESC").Find(&notifs).Error
	if err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkRead flags one of the organization's notifications as read.
// Returns false when the notification is not in the organization.
func (s *NotificationService) MarkRead(orgID, notificationID int) (bool, error) {
	var notif models.Notification
	err := s.db.Where("notification_id = ? AND org_id = ?", notificationID, orgID).First(&notif).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	now := time.Now()
	notif.IsRead = true
	notif.UpdateAt = &now
	if err := s.db.Save(&notif).Error; err != nil {
		return false, err
	}
	return true, nil
}
