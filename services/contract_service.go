package services

import (
	"errors"
	"time"

	"contract-management-api/config"
	"contract-management-api/models"
	"contract-management-api/utils"

	"gorm.io/gorm"
)

type ContractService struct {
	db *gorm.DB
}

func NewContractService(db *gorm.DB) *ContractService {
	if db == nil {
		db = config.DB
	}
	return &ContractService{db: db}
}

// FindByOrganization lists all contracts of an organization.
func (s *ContractService) FindByOrganization(orgID int) ([]models.Contract, error) {
	var contracts []models.Contract
	if err := s.db.Where("org_id = ?", orgID).Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// FindByOrganizationAndID returns the contract, or nil when it does not
// exist in that organization. A contract belonging to another organization
// is indistinguishable from a missing one.
func (s *ContractService) FindByOrganizationAndID(orgID, contractID int) (*models.Contract, error) {
	var contract models.Contract
	err := s.db.Where("contract_id = ? AND org_id = ?", contractID, orgID).First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindByOrganizationAndEndDate returns the organization's contracts whose
// end date equals the given date exactly. Used by the reminder engine.
func (s *ContractService) FindByOrganizationAndEndDate(orgID int, date time.Time) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.Where("org_id = ? AND end_date = ?", orgID, utils.FormatDate(date)).Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (s *ContractService) Save(contract *models.Contract) error {
	return s.db.Save(contract).Error
}

// DeleteByOrganizationAndID removes the contract if it belongs to the
// organization. Returns false when not found (or owned by another tenant).
func (s *ContractService) DeleteByOrganizationAndID(orgID, contractID int) (bool, error) {
	res := s.db.Where("contract_id = ? AND org_id = ?", contractID, orgID).Delete(&models.Contract{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ValidateDates enforces start date <= end date on create and update.
func ValidateDates(start, end time.Time) error {
	if start.After(end) {
		return &ValidationError{Msg: "start date must be on or before end date"}
	}
	return nil
}

// ResolveStatusOnSave decides the stored status when a contract is created
// or edited with an end date.
//
// An end date in the past always terminates. Otherwise the contract is
// active, unless it was already terminated: an edit alone never silently
// reactivates a terminated contract — that takes an explicit reactivate.
func ResolveStatusOnSave(current models.ContractStatus, endDate, today time.Time) models.ContractStatus {
	if utils.DateOnly(endDate).Before(utils.DateOnly(today)) {
		return models.ContractTerminated
	}
	if current == models.ContractTerminated {
		return models.ContractTerminated
	}
	return models.ContractActive
}

// Terminate sets the status to TERMINATED unconditionally.
// Returns nil when the contract is not in the organization.
func (s *ContractService) Terminate(orgID, contractID int) (*models.Contract, error) {
	contract, err := s.FindByOrganizationAndID(orgID, contractID)
	if err != nil || contract == nil {
		return nil, err
	}
	contract.Status = models.ContractTerminated
	if err := s.Save(contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// Reactivate sets the status back to ACTIVE, but only for contracts whose
// end date has not passed.
func (s *ContractService) Reactivate(orgID, contractID int, today time.Time) (*models.Contract, error) {
	contract, err := s.FindByOrganizationAndID(orgID, contractID)
	if err != nil || contract == nil {
		return nil, err
	}
	if utils.DateOnly(contract.EndDate).Before(utils.DateOnly(today)) {
		return nil, &ValidationError{Msg: "cannot reactivate: end date in the past"}
	}
	contract.Status = models.ContractActive
	if err := s.Save(contract); err != nil {
		return nil, err
	}
	return contract, nil
}
