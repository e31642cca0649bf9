// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// ProjectRepository defines the secondary port for project persistence.
type ProjectRepository interface {
	// Create persists a new project together with its provisioned stage rows
	// in a single transaction.
	Create(ctx context.Context, project *ProjectRecord, stages []*ProjectStageRecord) error

	// GetByID retrieves a project by its ID.
	GetByID(ctx context.Context, id string) (*ProjectRecord, error)

	// List retrieves all projects ordered by creation time.
	List(ctx context.Context) ([]*ProjectRecord, error)

	// GetNextID returns the next available project ID.
	GetNextID(ctx context.Context) (string, error)
}

// ProjectRecord represents a project as stored in persistence.
type ProjectRecord struct {
	ID              string
	Name            string
	TemplateVersion string
	CreatedAt       string
	UpdatedAt       string
}

// StageRepository defines the secondary port for project stage persistence.
// Project stage rows are created at provisioning time and only ever mutated
// through SaveTransition; they are never deleted.
type StageRepository interface {
	// GetByProjectAndCode retrieves the stage row for (project, stage code).
	// Returns ErrNotFound if the row does not exist.
	GetByProjectAndCode(ctx context.Context, projectID, stageCode string) (*ProjectStageRecord, error)

	// ListByProject retrieves all stage rows for a project.
	ListByProject(ctx context.Context, projectID string) ([]*ProjectStageRecord, error)

	// SaveTransition persists the mutated stage rows and their change log rows
	// in a single transaction. Every stage row is written with a version-check
	// predicate; ErrVersionConflict is returned (and nothing committed) if any
	// row was modified concurrently. Log IDs are assigned by the adapter.
	SaveTransition(ctx context.Context, stages []*ProjectStageRecord, logs []*StageChangeLogRecord) error

	// ClearBackfill clears the requires_backfill flag on a stage row.
	// Used when a supporting fact is recorded after an auto-completion.
	ClearBackfill(ctx context.Context, projectID, stageCode string) error
}

// ProjectStageRecord represents a project stage as stored in persistence.
// Date fields use the YYYY-MM-DD civil date format; empty string means null.
type ProjectStageRecord struct {
	ProjectID         string
	StageCode         string
	Status            string
	ActualStart       string // Empty string means null
	CompletedOn       string // Empty string means null
	AutoCompleted     bool
	AutoCompletedFrom string // Empty string means null
	RequiresBackfill  bool
	Version           int // Optimistic concurrency token, bumped on every write
	CreatedAt         string
	UpdatedAt         string
}

// ChangeRequestRepository defines the secondary port for stage change request
// persistence.
type ChangeRequestRepository interface {
	// Create persists a new pending request together with its Requested log
	// row in a single transaction.
	Create(ctx context.Context, request *StageChangeRequestRecord, log *StageChangeLogRecord) error

	// GetByID retrieves a request by its ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id string) (*StageChangeRequestRecord, error)

	// List retrieves requests matching the given filters.
	List(ctx context.Context, filters ChangeRequestFilters) ([]*StageChangeRequestRecord, error)

	// Decide marks a pending request as approved or rejected together with its
	// decision log row, in one transaction. The update carries a
	// decision_status = 'pending' predicate so concurrent decisions on the
	// same request serialize; ErrAlreadyDecided is returned when the request
	// is no longer pending, ErrNotFound when it does not exist.
	Decide(ctx context.Context, id string, decision Decision, log *StageChangeLogRecord) error

	// GetNextID returns the next available request ID.
	GetNextID(ctx context.Context) (string, error)
}

// StageChangeRequestRecord represents a change request as stored in persistence.
type StageChangeRequestRecord struct {
	ID              string
	ProjectID       string
	StageCode       string
	RequestedStatus string
	RequestedDate   string // Empty string means null
	Note            string
	RequestedBy     string
	RequestedOn     string
	DecisionStatus  string // 'pending', 'approved', 'rejected'
	DecisionNote    string // Empty string means null
	DecidedBy       string // Empty string means null
	DecidedOn       string // Empty string means null
}

// Decision carries the terminal decision fields applied to a pending request.
type Decision struct {
	Status    string // 'approved' or 'rejected'
	Note      string
	DecidedBy string
	DecidedOn string
}

// ChangeRequestFilters contains filter options for querying change requests.
type ChangeRequestFilters struct {
	ProjectID      string
	StageCode      string
	DecisionStatus string
}

// ChangeLogRepository defines the secondary port for the append-only stage
// change log. Entries are never updated or deleted.
type ChangeLogRepository interface {
	// Append persists a new log entry, assigning its ID.
	Append(ctx context.Context, log *StageChangeLogRecord) error

	// List retrieves log entries matching the given filters, oldest first.
	List(ctx context.Context, filters ChangeLogFilters) ([]*StageChangeLogRecord, error)
}

// StageChangeLogRecord represents one audit row in the stage change log.
type StageChangeLogRecord struct {
	ID              string
	RequestID       string // Empty string means null (direct transitions)
	ProjectID       string
	StageCode       string
	Action          string // 'requested', 'approved', 'rejected', 'applied'
	FromStatus      string
	ToStatus        string
	FromActualStart string // Empty string means null
	ToActualStart   string // Empty string means null
	FromCompletedOn string // Empty string means null
	ToCompletedOn   string // Empty string means null
	Note            string
	ActorID         string
	CreatedAt       string
}

// ChangeLogFilters contains filter options for querying the change log.
type ChangeLogFilters struct {
	ProjectID string
	RequestID string
	Action    string
}

// FactRepository defines the secondary port for stage fact persistence.
type FactRepository interface {
	// Create persists a new fact.
	Create(ctx context.Context, fact *StageFactRecord) error

	// List retrieves facts for a project, optionally filtered by stage code.
	List(ctx context.Context, projectID, stageCode string) ([]*StageFactRecord, error)

	// GetNextID returns the next available fact ID.
	GetNextID(ctx context.Context) (string, error)
}

// StageFactRecord represents a stage-specific supporting data record.
type StageFactRecord struct {
	ID         string
	ProjectID  string
	StageCode  string
	Summary    string
	RecordedBy string
	RecordedAt string
}

// FactsGateway answers, per project and stage code, whether the stage needs a
// supporting fact to be considered complete and whether one exists. Reads are
// side-effect-free; callers may hold the answers for the duration of a single
// operation but must not cache them across calls.
type FactsGateway interface {
	// RequiresFact reports whether the stage code requires a supporting fact.
	RequiresFact(ctx context.Context, stageCode string) (bool, error)

	// HasFact reports whether a fact is recorded for (project, stage code).
	HasFact(ctx context.Context, projectID, stageCode string) (bool, error)
}

// StageCatalog provides read-only access to the ordered stage definitions of
// a template version.
type StageCatalog interface {
	// GetStages returns the stage definitions for a template version,
	// ordered by sequence.
	GetStages(ctx context.Context, templateVersion string) ([]StageDef, error)
}

// StageDef is one stage definition from the catalog.
type StageDef struct {
	Code         string
	Name         string
	Sequence     int
	Optional     bool
	RequiresFact bool
}
