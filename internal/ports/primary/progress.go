// Package primary defines the primary ports (driving adapters) for the application.
// These are the service interfaces through which callers drive the system.
package primary

import "context"

// ProgressService defines the primary port for the stage progress engine.
// It owns the per-project, per-stage status state machine.
type ProgressService interface {
	// ApplyTransition applies a single requested status transition to a
	// project stage, cascading completion to earlier stages when the target
	// is completed directly. The whole call is atomic: either all stage
	// mutations and their log rows persist, or none do.
	ApplyTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error)

	// GetStage retrieves one project stage with its template metadata.
	GetStage(ctx context.Context, projectID, stageCode string) (*ProjectStage, error)

	// ListStages retrieves all stages of a project in sequence order.
	ListStages(ctx context.Context, projectID string) ([]*ProjectStage, error)
}

// TransitionRequest describes a single requested stage transition.
type TransitionRequest struct {
	ProjectID string
	StageCode string
	NewStatus string
	Date      string // Optional explicit date (YYYY-MM-DD); empty means now
	Note      string
	RequestID string // Optional originating change request, tagged on log rows
}

// TransitionResult reports the stages mutated by a transition: the direct
// target first, then any cascaded predecessors in application order.
type TransitionResult struct {
	Changed []*ProjectStage
}

// ProjectStage represents a project stage at the port boundary, joined with
// its template metadata.
type ProjectStage struct {
	ProjectID         string
	StageCode         string
	Name              string
	Sequence          int
	Optional          bool
	Status            string
	ActualStart       string // May be empty
	CompletedOn       string // May be empty
	AutoCompleted     bool
	AutoCompletedFrom string // May be empty
	RequiresBackfill  bool
}
