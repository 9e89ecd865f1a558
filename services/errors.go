package services

import (
	"errors"
	"fmt"
)

var (
	// ErrReminderRunAlreadyRunning is returned when another reminder run
	// holds the database lock.
	ErrReminderRunAlreadyRunning = errors.New("reminder run already running")
)

// ValidationError rejects an operation synchronously; nothing is applied.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

// ExtractionError indicates the OCR engine could not process the document.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("extraction failed for %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TimeoutError indicates the extraction exceeded its processing deadline.
// It is distinct from ExtractionError so callers can tell an unreadable
// document from a slow engine.
type TimeoutError struct {
	Filename string
	Err      error
}

func (e *TimeoutError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("extraction timed out for %s: %v", e.Filename, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SchedulerLookupError records a repository failure for one organization
// during a reminder run. The run continues for the remaining organizations.
type SchedulerLookupError struct {
	OrgID int
	Err   error
}

func (e *SchedulerLookupError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("reminder lookup failed for organization %d: %v", e.OrgID, e.Err)
}

func (e *SchedulerLookupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
