package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInvalidScore        = errors.New("invalid score")

	// ErrTransportFailure wraps fetch-layer failures. The engine records a
	// gap and moves on; retrying is the next scheduled pass's job.
	ErrTransportFailure = errors.New("transport failure")

	// ErrRevisionConflict signals a concurrent writer touched the event
	// record between read and write. The caller retries once.
	ErrRevisionConflict = errors.New("event revision conflict")
)

// StructuralValidationError is fatal for one event's reconstruction: the
// event keeps its prior persisted state and nothing is written.
type StructuralValidationError struct {
	EventKey string
	Reason   string
}

func (e *StructuralValidationError) Error() string {
	if e.EventKey == "" {
		return fmt.Sprintf("structural validation: %s", e.Reason)
	}
	return fmt.Sprintf("structural validation for %s: %s", e.EventKey, e.Reason)
}

// MergeConflictError reports a fragment that disagrees with previously
// complete data. The field group is skipped; old and new values are kept for
// manual review.
type MergeConflictError struct {
	FieldGroup string
	BoutKey    string
	Old        any
	New        any
}

func (e *MergeConflictError) Error() string {
	if e.BoutKey != "" {
		return fmt.Sprintf("merge conflict in %s at %s", e.FieldGroup, e.BoutKey)
	}
	return fmt.Sprintf("merge conflict in %s", e.FieldGroup)
}
