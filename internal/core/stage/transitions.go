package stage

import "time"

// Snapshot is the current state of a project stage as read from persistence.
// All values are pre-fetched by the caller - no I/O here.
type Snapshot struct {
	Status      Status
	ActualStart *time.Time
	CompletedOn *time.Time
}

// Change describes the field values a project stage should hold after a
// transition. It is a full replacement of the mutable stage fields, so a
// zero date pointer means the column is cleared.
type Change struct {
	Status            Status
	ActualStart       *time.Time
	CompletedOn       *time.Time
	AutoCompleted     bool
	AutoCompletedFrom string
	RequiresBackfill  bool
}

// ApplyStatusChange computes the stage field values resulting from a direct
// status transition. This is a pure function that captures the business rules:
//   - in_progress sets the actual start (explicit date or now) only if unset.
//   - completed sets the completion date and backfills the actual start so the
//     start never exceeds the completion.
//   - not_started is a full reset: dates and cascade bookkeeping are cleared.
//   - a direct transition always clears auto-completion bookkeeping; only the
//     cascade sets those flags.
//
// The caller passes the current time to keep the function deterministic.
func ApplyStatusChange(current Snapshot, newStatus Status, explicitDate *time.Time, now time.Time) Change {
	effective := now
	if explicitDate != nil {
		effective = *explicitDate
	}

	switch newStatus {
	case StatusInProgress:
		start := current.ActualStart
		if start == nil {
			start = &effective
		}
		return Change{Status: StatusInProgress, ActualStart: start}

	case StatusCompleted:
		start := current.ActualStart
		if start == nil {
			start = &effective
		}
		return Change{Status: StatusCompleted, ActualStart: start, CompletedOn: &effective}

	case StatusSkipped:
		return Change{Status: StatusSkipped, ActualStart: current.ActualStart}

	default: // StatusNotStarted - reset
		return Change{Status: StatusNotStarted}
	}
}

// InitialStatus returns the status for a freshly provisioned project stage.
func InitialStatus() Status {
	return StatusNotStarted
}
