package websocket

import "time"

// Progress event types, in the order a run emits them.
const (
	EventRunStarted          = "run_started"
	EventCompetitionStarted  = "competition_started"
	EventEventReconciled     = "event_reconciled"
	EventEventFailed         = "event_failed"
	EventCompetitionFinished = "competition_finished"
	EventRunFinished         = "run_finished"
)

// ProgressEvent is one frame of the run-progress stream.
type ProgressEvent struct {
	Type        string    `json:"type"`
	RunID       string    `json:"runId,omitempty"`
	CompKey     string    `json:"compKey,omitempty"`
	EventKey    string    `json:"eventKey,omitempty"`
	SubEventKey string    `json:"subEventKey,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	At          time.Time `json:"at"`
}
