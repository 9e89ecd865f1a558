package services

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultReminderCron = "0 2 * * *" // daily at 02:00

// Scheduler owns the cron trigger for the daily reminder run. The engine
// itself stays trigger-agnostic; this is just one way to invoke it.
type Scheduler struct {
	cron      *cron.Cron
	reminders *ReminderService
	spec      string
}

func NewScheduler(reminders *ReminderService) *Scheduler {
	spec := os.Getenv("REMINDER_CRON")
	if spec == "" {
		spec = defaultReminderCron
	}

	cronLogger := cron.PrintfLogger(log.Default())
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:      c,
		reminders: reminders,
		spec:      spec,
	}
}

// Start registers the reminder job and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.spec, s.runReminders); err != nil {
		log.Printf("failed to schedule reminder job: %v", err)
		return
	}
	log.Printf("scheduled reminder job: %s", s.spec)
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runReminders() {
	log.Printf("starting reminder run")
	today := time.Now()

	events, err := s.reminders.RunAllLocked(context.Background(), today)
	if errors.Is(err, ErrReminderRunAlreadyRunning) {
		log.Printf("reminder run skipped: already running")
		return
	}
	if err != nil {
		log.Printf("reminder run finished with errors: sent=%d error=%v", len(events), err)
		return
	}

	log.Printf("reminder run finished: sent=%d", len(events))
}
