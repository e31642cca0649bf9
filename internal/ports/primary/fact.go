package primary

import "context"

// FactService defines the primary port for stage fact operations. Facts are
// the stage-specific supporting data records that gate direct completion.
type FactService interface {
	// RecordFact records a supporting fact for a project stage. Recording a
	// fact for a stage flagged for backfill resolves the flag.
	RecordFact(ctx context.Context, req RecordFactRequest) (*Fact, error)

	// ListFacts lists facts for a project, optionally filtered by stage code.
	ListFacts(ctx context.Context, projectID, stageCode string) ([]*Fact, error)
}

// RecordFactRequest contains the inputs for recording a fact.
type RecordFactRequest struct {
	ProjectID string
	StageCode string
	Summary   string
}

// Fact represents a stage fact entity at the port boundary.
type Fact struct {
	ID         string
	ProjectID  string
	StageCode  string
	Summary    string
	RecordedBy string
	RecordedAt string
}
