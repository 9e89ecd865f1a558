package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"contract-management-api/models"
	"contract-management-api/utils"
)

type orgListerStub struct {
	orgs []models.Organization
	err  error
}

func (s *orgListerStub) ListOrganizations() ([]models.Organization, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orgs, nil
}

type contractFinderStub struct {
	// contracts indexed by org id; matched against the lookup date exactly.
	contracts map[int][]models.Contract
	failOrgs  map[int]error
}

func (s *contractFinderStub) FindByOrganizationAndEndDate(orgID int, date time.Time) ([]models.Contract, error) {
	if err := s.failOrgs[orgID]; err != nil {
		return nil, err
	}
	var out []models.Contract
	for _, c := range s.contracts[orgID] {
		if utils.SameDate(c.EndDate, date) {
			out = append(out, c)
		}
	}
	return out, nil
}

type dispatcherStub struct {
	emails   []string
	inApp    []string
	emailErr error
}

func (s *dispatcherStub) SendEmailReminder(org *models.Organization, contract *models.Contract, message string) error {
	s.emails = append(s.emails, fmt.Sprintf("org=%d contract=%d %s", org.OrgID, contract.ContractID, message))
	return s.emailErr
}

func (s *dispatcherStub) SendInAppReminder(orgID int, contract *models.Contract, message string) error {
	s.inApp = append(s.inApp, fmt.Sprintf("org=%d contract=%d %s", orgID, contract.ContractID, message))
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRunAllEmitsOneEventPerMatchingOffset(t *testing.T) {
	org := models.Organization{OrgID: 1, AdminEmail: "admin@acme.fr", Reminder1Month: true}
	orgs := &orgListerStub{orgs: []models.Organization{org}}
	finder := &contractFinderStub{contracts: map[int][]models.Contract{
		1: {
			{ContractID: 10, OrgID: 1, Name: "Hosting", EndDate: date(2025, 2, 1)},
			{ContractID: 11, OrgID: 1, Name: "Support", EndDate: date(2025, 6, 1)},
		},
	}}
	dispatcher := &dispatcherStub{}

	svc := NewReminderServiceWith(orgs, finder, dispatcher)
	events, err := svc.RunAll(date(2025, 1, 1))
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d: %+v", len(events), events)
	}
	ev := events[0]
	if ev.OffsetLabel != "1-month" || ev.ContractID != 10 || ev.OrgID != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.TargetDate.Equal(date(2025, 2, 1)) {
		t.Fatalf("unexpected target date: %v", ev.TargetDate)
	}
	if len(dispatcher.emails) != 1 || len(dispatcher.inApp) != 1 {
		t.Fatalf("expected one email and one in-app delivery, got %d/%d",
			len(dispatcher.emails), len(dispatcher.inApp))
	}
}

func TestRunAllSameDayIsAlwaysChecked(t *testing.T) {
	// No optional offsets enabled at all.
	org := models.Organization{OrgID: 1, AdminEmail: "admin@acme.fr"}
	orgs := &orgListerStub{orgs: []models.Organization{org}}
	finder := &contractFinderStub{contracts: map[int][]models.Contract{
		1: {{ContractID: 10, OrgID: 1, Name: "Hosting", EndDate: date(2025, 1, 1)}},
	}}
	dispatcher := &dispatcherStub{}

	events, err := NewReminderServiceWith(orgs, finder, dispatcher).RunAll(date(2025, 1, 1))
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}

	if len(events) != 1 || events[0].OffsetLabel != "same-day" {
		t.Fatalf("expected a single same-day event, got %+v", events)
	}
}

func TestRunAllDisabledOffsetsAreSkipped(t *testing.T) {
	org := models.Organization{OrgID: 1} // 1-week NOT enabled
	orgs := &orgListerStub{orgs: []models.Organization{org}}
	finder := &contractFinderStub{contracts: map[int][]models.Contract{
		1: {{ContractID: 10, OrgID: 1, Name: "Hosting", EndDate: date(2025, 1, 8)}},
	}}
	dispatcher := &dispatcherStub{}

	events, err := NewReminderServiceWith(orgs, finder, dispatcher).RunAll(date(2025, 1, 1))
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events for a disabled offset, got %+v", events)
	}
}

func TestRunAllMultipleOffsetsYieldIndependentEvents(t *testing.T) {
	org := models.Organization{OrgID: 1, Reminder1Week: true, Reminder2Weeks: true}
	orgs := &orgListerStub{orgs: []models.Organization{org}}
	finder := &contractFinderStub{contracts: map[int][]models.Contract{
		1: {
			{ContractID: 10, OrgID: 1, Name: "Hosting", EndDate: date(2025, 1, 8)},
			{ContractID: 11, OrgID: 1, Name: "Support", EndDate: date(2025, 1, 15)},
		},
	}}
	dispatcher := &dispatcherStub{}

	events, err := NewReminderServiceWith(orgs, finder, dispatcher).RunAll(date(2025, 1, 1))
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	labels := map[string]int{}
	for _, ev := range events {
		labels[ev.OffsetLabel]++
	}
	if labels["1-week"] != 1 || labels["2-weeks"] != 1 {
		t.Fatalf("unexpected offset labels: %v", labels)
	}
}

func TestRunAllIsolatesPerOrganizationFailures(t *testing.T) {
	orgs := &orgListerStub{orgs: []models.Organization{
		{OrgID: 1, AdminEmail: "a@a.fr"},
		{OrgID: 2, AdminEmail: "b@b.fr"},
	}}
	finder := &contractFinderStub{
		contracts: map[int][]models.Contract{
			2: {{ContractID: 20, OrgID: 2, Name: "Hosting", EndDate: date(2025, 1, 1)}},
		},
		failOrgs: map[int]error{1: errors.New("connection reset")},
	}
	dispatcher := &dispatcherStub{}

	events, err := NewReminderServiceWith(orgs, finder, dispatcher).RunAll(date(2025, 1, 1))

	if len(events) != 1 || events[0].OrgID != 2 {
		t.Fatalf("expected the second organization to still be processed, got %+v", events)
	}

	var lookupErr *SchedulerLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected a SchedulerLookupError, got %v", err)
	}
	if lookupErr.OrgID != 1 {
		t.Fatalf("expected failure recorded for organization 1, got %d", lookupErr.OrgID)
	}
}

func TestRunAllDispatchFailureDoesNotDropEvents(t *testing.T) {
	org := models.Organization{OrgID: 1, AdminEmail: "admin@acme.fr"}
	orgs := &orgListerStub{orgs: []models.Organization{org}}
	finder := &contractFinderStub{contracts: map[int][]models.Contract{
		1: {{ContractID: 10, OrgID: 1, Name: "Hosting", EndDate: date(2025, 1, 1)}},
	}}
	dispatcher := &dispatcherStub{emailErr: errors.New("smtp down")}

	events, err := NewReminderServiceWith(orgs, finder, dispatcher).RunAll(date(2025, 1, 1))
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected the event despite the email failure, got %+v", events)
	}
	if len(dispatcher.inApp) != 1 {
		t.Fatal("in-app delivery should still have been attempted")
	}
}

func TestReminderMessageInterpolatesContractNameAndEndDate(t *testing.T) {
	org := models.Organization{OrgID: 1}
	orgs := &orgListerStub{orgs: []models.Organization{org}}
	finder := &contractFinderStub{contracts: map[int][]models.Contract{
		1: {{ContractID: 10, OrgID: 1, Name: "Hosting", EndDate: date(2025, 1, 1)}},
	}}
	dispatcher := &dispatcherStub{}

	events, err := NewReminderServiceWith(orgs, finder, dispatcher).RunAll(date(2025, 1, 1))
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}

	want := `Expiration du contrat aujourd'hui. (Contrat : "Hosting" - Expiration : 2025-01-01)`
	if events[0].Message != want {
		t.Fatalf("message = %q, want %q", events[0].Message, want)
	}
}

func TestAddMonthsClampedEndOfMonth(t *testing.T) {
	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{date(2025, 1, 31), 1, date(2025, 2, 28)}, // non-leap February
		{date(2024, 1, 31), 1, date(2024, 2, 29)}, // leap February
		{date(2025, 3, 31), 1, date(2025, 4, 30)},
		{date(2025, 1, 15), 2, date(2025, 3, 15)},
		{date(2025, 12, 31), 2, date(2026, 2, 28)},
		{date(2025, 1, 31), 2, date(2025, 3, 31)},
	}

	for _, tc := range cases {
		got := AddMonthsClamped(tc.in, tc.months)
		if !got.Equal(tc.want) {
			t.Fatalf("AddMonthsClamped(%v, %d) = %v, want %v",
				tc.in.Format("2006-01-02"), tc.months, got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}
