package services

import (
	"errors"

	"contract-management-api/config"
	"contract-management-api/models"

	"gorm.io/gorm"
)

type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	if db == nil {
		db = config.DB
	}
	return &OrganizationService{db: db}
}

// ListOrganizations returns every organization with its reminder
// configuration, read once per reminder run.
func (s *OrganizationService) ListOrganizations() ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.db.Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *OrganizationService) FindByID(orgID int) (*models.Organization, error) {
	var org models.Organization
	err := s.db.Where("org_id = ?", orgID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// UpdateReminderConfig stores the organization's optional offset flags.
func (s *OrganizationService) UpdateReminderConfig(orgID int, cfg models.ReminderConfig) (*models.Organization, error) {
	org, err := s.FindByID(orgID)
	if err != nil || org == nil {
		return nil, err
	}
	org.ApplyReminderConfig(cfg)
	if err := s.db.Save(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}
