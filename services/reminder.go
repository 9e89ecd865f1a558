package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"contract-management-api/config"
	"contract-management-api/models"
	"contract-management-api/utils"

	"gorm.io/gorm"
)

// ReminderOffset is one named lead time before a contract's end date.
// SameDay is always active; the other four are opt-in per organization.
type ReminderOffset struct {
	Label    string
	AlwaysOn bool
	Enabled  func(org *models.Organization) bool
	Target   func(today time.Time) time.Time
	Message  string
}

// ReminderOffsets is evaluated in order on every run: five checks per
// organization, the optional ones gated by the organization's config.
var ReminderOffsets = []ReminderOffset{
	{
		Label:    "same-day",
		AlwaysOn: true,
		Enabled:  func(*models.Organization) bool { return true },
		Target:   func(today time.Time) time.Time { return today },
		Message:  "Expiration du contrat aujourd'hui.",
	},
	{
		Label:   "1-week",
		Enabled: func(org *models.Organization) bool { return org.Reminder1Week },
		Target:  func(today time.Time) time.Time { return today.AddDate(0, 0, 7) },
		Message: "Il reste 1 semaine avant l'expiration du contrat.",
	},
	{
		Label:   "2-weeks",
		Enabled: func(org *models.Organization) bool { return org.Reminder2Weeks },
		Target:  func(today time.Time) time.Time { return today.AddDate(0, 0, 14) },
		Message: "Il reste 2 semaines avant l'expiration du contrat.",
	},
	{
		Label:   "1-month",
		Enabled: func(org *models.Organization) bool { return org.Reminder1Month },
		Target:  func(today time.Time) time.Time { return AddMonthsClamped(today, 1) },
		Message: "Il reste 1 mois avant l'expiration du contrat.",
	},
	{
		Label:   "2-months",
		Enabled: func(org *models.Organization) bool { return org.Reminder2Months },
		Target:  func(today time.Time) time.Time { return AddMonthsClamped(today, 2) },
		Message: "Il reste 2 mois avant l'expiration du contrat.",
	},
}

// AddMonthsClamped adds calendar months with end-of-month clamping:
// Jan 31 + 1 month is the last day of February, not March 2/3. time.AddDate
// normalizes overflow days into the next month, so the clamp is explicit.
func AddMonthsClamped(t time.Time, months int) time.Time {
	t = utils.DateOnly(t)
	y, m, d := t.Date()

	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// ReminderEvent is one due notification: ephemeral, produced per matching
// contract per offset within a single run and handed to the dispatcher.
type ReminderEvent struct {
	OrgID       int       `json:"org_id"`
	ContractID  int       `json:"contract_id"`
	OffsetLabel string    `json:"offset"`
	TargetDate  time.Time `json:"target_date"`
	Message     string    `json:"message"`
}

// ContractFinder is the date-indexed repository lookup the engine needs.
type ContractFinder interface {
	FindByOrganizationAndEndDate(orgID int, date time.Time) ([]models.Contract, error)
}

// OrganizationLister supplies every organization with its reminder config.
type OrganizationLister interface {
	ListOrganizations() ([]models.Organization, error)
}

// ReminderDispatcher delivers a rendered reminder; delivery failures are the
// dispatcher's concern and are not retried by the engine.
type ReminderDispatcher interface {
	SendEmailReminder(org *models.Organization, contract *models.Contract, message string) error
	SendInAppReminder(orgID int, contract *models.Contract, message string) error
}

// ReminderService evaluates, for a given calendar date, which contracts are
// due a reminder and forwards them to the dispatcher. It is trigger-agnostic:
// cron, the CLI or any orchestrator may call RunAll.
type ReminderService struct {
	db         *gorm.DB
	orgs       OrganizationLister
	contracts  ContractFinder
	dispatcher ReminderDispatcher
}

func NewReminderService(db *gorm.DB) *ReminderService {
	if db == nil {
		db = config.DB
	}
	return &ReminderService{
		db:         db,
		orgs:       NewOrganizationService(db),
		contracts:  NewContractService(db),
		dispatcher: NewNotificationService(db),
	}
}

// NewReminderServiceWith wires the engine to explicit collaborators.
func NewReminderServiceWith(orgs OrganizationLister, contracts ContractFinder, dispatcher ReminderDispatcher) *ReminderService {
	return &ReminderService{orgs: orgs, contracts: contracts, dispatcher: dispatcher}
}

// RunAll performs one full reminder evaluation for the given date. A lookup
// failure for one organization is recorded and the run continues for the
// rest; the joined per-organization errors come back alongside the events
// that were dispatched.
func (s *ReminderService) RunAll(today time.Time) ([]ReminderEvent, error) {
	today = utils.DateOnly(today)

	orgs, err := s.orgs.ListOrganizations()
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}

	var events []ReminderEvent
	var runErrs []error
	for i := range orgs {
		org := &orgs[i]
		orgEvents, err := s.runForOrganization(org, today)
		if err != nil {
			lookupErr := &SchedulerLookupError{OrgID: org.OrgID, Err: err}
			log.Printf("reminder run: %v", lookupErr)
			runErrs = append(runErrs, lookupErr)
			continue
		}
		events = append(events, orgEvents...)
	}

	return events, errors.Join(runErrs...)
}

// runForOrganization evaluates the five offset checks for one organization.
// A contract matching two offsets in the same run yields two events; that is
// intentional, not deduplicated.
func (s *ReminderService) runForOrganization(org *models.Organization, today time.Time) ([]ReminderEvent, error) {
	var events []ReminderEvent
	for _, offset := range ReminderOffsets {
		if !offset.AlwaysOn && !offset.Enabled(org) {
			continue
		}

		target := offset.Target(today)
		contracts, err := s.contracts.FindByOrganizationAndEndDate(org.OrgID, target)
		if err != nil {
			return nil, err
		}

		for i := range contracts {
			contract := &contracts[i]
			message := fmt.Sprintf("%s (Contrat : %q - Expiration : %s)",
				offset.Message, contract.Name, utils.FormatDate(contract.EndDate))

			if err := s.dispatcher.SendEmailReminder(org, contract, message); err != nil {
				log.Printf("reminder email failed: org=%d contract=%d error=%v", org.OrgID, contract.ContractID, err)
			}
			if err := s.dispatcher.SendInAppReminder(org.OrgID, contract, message); err != nil {
				log.Printf("in-app reminder failed: org=%d contract=%d error=%v", org.OrgID, contract.ContractID, err)
			}

			events = append(events, ReminderEvent{
				OrgID:       org.OrgID,
				ContractID:  contract.ContractID,
				OffsetLabel: offset.Label,
				TargetDate:  target,
				Message:     message,
			})
		}
	}
	return events, nil
}

// RunAllLocked wraps RunAll in a database named lock so that overlapping
// triggers (a retry, a second replica) cannot run concurrently. It returns
// ErrReminderRunAlreadyRunning when another run holds the lock.
func (s *ReminderService) RunAllLocked(ctx context.Context, today time.Time) ([]ReminderEvent, error) {
	if s.db == nil {
		return s.RunAll(today)
	}

	release, err := s.acquireLock(ctx, "contract_reminder_run")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(); err != nil {
			log.Printf("reminder run: release lock: %v", err)
		}
	}()

	return s.RunAll(today)
}

func (s *ReminderService) acquireLock(ctx context.Context, lockName string) (func() error, error) {
	var ok int
	if err := s.db.WithContext(ctx).Raw("SELECT GET_LOCK(?, 0)", lockName).Scan(&ok).Error; err != nil {
		return nil, err
	}
	if ok != 1 {
		return nil, ErrReminderRunAlreadyRunning
	}

	return func() error {
		var released int
		if err := s.db.WithContext(ctx).Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&released).Error; err != nil {
			return err
		}
		return nil
	}, nil
}
