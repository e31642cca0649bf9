// Package stage contains the pure business logic for stage lifecycle
// operations. This is part of the Functional Core - no I/O, only pure functions.
package stage

import "fmt"

// Status represents the possible states of a project stage.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// ParseStatus validates a raw status string and returns the typed status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid stage status: %q", s)
	}
}

// Settled reports whether a stage in this status needs no further work.
// Settled stages are never touched by the completion cascade.
func (s Status) Settled() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// DecisionStatus represents the possible states of a change request decision.
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionApproved DecisionStatus = "approved"
	DecisionRejected DecisionStatus = "rejected"
)

// Terminal reports whether a decision status permits no further transitions.
func (d DecisionStatus) Terminal() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// LogAction represents the kind of audit event recorded in the change log.
type LogAction string

const (
	ActionRequested LogAction = "requested"
	ActionApproved  LogAction = "approved"
	ActionRejected  LogAction = "rejected"
	ActionApplied   LogAction = "applied"
)
