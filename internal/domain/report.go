package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventOutcome summarizes one event's pass through the pipeline.
type EventOutcome struct {
	CompKey     string `json:"compKey"`
	EventKey    string `json:"eventKey"`
	SubEventKey string `json:"subEventKey"`

	BoutsWritten    int  `json:"boutsWritten"`
	RankingsWritten int  `json:"rankingsWritten"`
	Conflicts       int  `json:"conflicts"`
	StructuralError bool `json:"structuralError,omitempty"`
	TransportError  bool `json:"transportError,omitempty"`
	Skipped         bool `json:"skipped,omitempty"`
	Error           string `json:"error,omitempty"`
}

// RunReport is the user-visible output of one reconciliation pass. No error
// is swallowed: every structural, merge, or transport failure shows up in the
// counts and in the affected-event list.
type RunReport struct {
	RunID      uuid.UUID `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Competitions      int `json:"competitions"`
	EventsProcessed   int `json:"eventsProcessed"`
	BoutsWritten      int `json:"boutsWritten"`
	StructuralErrors  int `json:"structuralErrors"`
	MergeConflicts    int `json:"mergeConflicts"`
	TransportFailures int `json:"transportFailures"`

	AffectedEvents []string `json:"affectedEvents,omitempty"`
	Gaps           []Gap    `json:"gaps,omitempty"`
	Outcomes       []EventOutcome `json:"outcomes,omitempty"`
}

func (r *RunReport) Record(o EventOutcome) {
	r.EventsProcessed++
	r.BoutsWritten += o.BoutsWritten
	r.MergeConflicts += o.Conflicts
	key := o.CompKey + "/" + o.EventKey + "/" + o.SubEventKey
	if o.StructuralError {
		r.StructuralErrors++
		r.AffectedEvents = append(r.AffectedEvents, key)
	}
	if o.TransportError {
		r.TransportFailures++
		r.AffectedEvents = append(r.AffectedEvents, key)
	}
	if o.Conflicts > 0 {
		r.AffectedEvents = append(r.AffectedEvents, key)
	}
	r.Outcomes = append(r.Outcomes, o)
}

// MergeConflict is the persisted review record for one rejected field group.
type MergeConflict struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID    uuid.UUID      `json:"eventId" gorm:"type:uuid;not null;index"`
	FieldGroup string         `json:"fieldGroup" gorm:"not null"`
	BoutKey    string         `json:"boutKey"`
	OldValue   datatypes.JSON `json:"oldValue"`
	NewValue   datatypes.JSON `json:"newValue"`
	Resolved   bool           `json:"resolved" gorm:"not null;default:false"`
	CreatedAt  time.Time      `json:"createdAt"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}
