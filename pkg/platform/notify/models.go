// Package notify carries the events emitted after a successful write-path
// evaluation. External monitors subscribe selectively - for example only to
// minor alerts - without scanning all evaluations.
package notify

import (
	"time"

	id "boardcheck/pkg/domain"
)

// Kind classifies notification events for selective routing.
type Kind string

const (
	// KindEvaluationCompleted is emitted for every recorded evaluation.
	KindEvaluationCompleted Kind = "evaluation_completed"

	// KindMinorAlert is additionally emitted when the resolved category is
	// minor citizen.
	KindMinorAlert Kind = "minor_alert"
)

// Event is emitted from domain logic after a record is committed. Keep it
// transport-agnostic so sinks can fan out; enum fields travel as their string
// names rather than internal types.
type Event struct {
	Kind      Kind
	Timestamp time.Time
	Requester id.RequesterID
	Category  string
	CanBoard  bool
	RequestID string

	// Minor-alert enrichment, only set when Kind is KindMinorAlert.
	Age       int
	Companion string
}
