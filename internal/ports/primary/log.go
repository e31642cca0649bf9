package primary

import "context"

// LogService defines the primary port for reading the stage change audit trail.
type LogService interface {
	// ListLogs lists change log entries, oldest first.
	ListLogs(ctx context.Context, filters LogFilters) ([]*ChangeLogEntry, error)
}

// LogFilters contains filter options for querying the change log.
type LogFilters struct {
	ProjectID string
	RequestID string
	Action    string
}

// ChangeLogEntry represents one audit row at the port boundary.
type ChangeLogEntry struct {
	ID              string
	RequestID       string // May be empty
	ProjectID       string
	StageCode       string
	Action          string
	FromStatus      string
	ToStatus        string
	FromActualStart string // May be empty
	ToActualStart   string // May be empty
	FromCompletedOn string // May be empty
	ToCompletedOn   string // May be empty
	Note            string
	ActorID         string
	CreatedAt       string
}
