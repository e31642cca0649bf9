package primary

import "context"

// DecisionService defines the primary port for the change request workflow:
// a submitter proposes a status/date change, an approver decides it.
type DecisionService interface {
	// SubmitRequest creates a pending change request and its Requested log row.
	SubmitRequest(ctx context.Context, req SubmitRequestInput) (*ChangeRequest, error)

	// Decide approves or rejects a pending request. On approval the stage
	// progress engine applies the transition; advisory warnings (date clamps,
	// incomplete predecessors) are returned and retained in the decision note.
	Decide(ctx context.Context, req DecideInput) (*DecideResult, error)

	// GetRequest retrieves a change request by ID.
	GetRequest(ctx context.Context, requestID string) (*ChangeRequest, error)

	// ListRequests lists change requests with optional filters.
	ListRequests(ctx context.Context, filters RequestFilters) ([]*ChangeRequest, error)
}

// DecideAction is the approver's choice on a pending request.
type DecideAction string

const (
	ActionApprove DecideAction = "approve"
	ActionReject  DecideAction = "reject"
)

// Outcome classifies the result of a decide call.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeAlreadyDecided   Outcome = "already_decided"
	OutcomeValidationFailed Outcome = "validation_failed"
)

// SubmitRequestInput describes a proposed stage change.
type SubmitRequestInput struct {
	ProjectID       string
	StageCode       string
	RequestedStatus string
	RequestedDate   string // Optional (YYYY-MM-DD)
	Note            string
}

// DecideInput describes an approve/reject action on a pending request.
type DecideInput struct {
	RequestID string
	Action    DecideAction
	Note      string
}

// DecideResult reports the outcome of a decide call together with any
// advisory warnings generated during approval. Warnings never block the
// decision; Reason carries the human-readable message for failed outcomes.
type DecideResult struct {
	Outcome  Outcome
	Warnings []string
	Reason   string // Populated for validation_failed and already_decided
}

// ChangeRequest represents a change request entity at the port boundary.
type ChangeRequest struct {
	ID              string
	ProjectID       string
	StageCode       string
	RequestedStatus string
	RequestedDate   string // May be empty
	Note            string
	RequestedBy     string
	RequestedOn     string
	DecisionStatus  string // 'pending', 'approved', 'rejected'
	DecisionNote    string // May be empty
	DecidedBy       string // May be empty
	DecidedOn       string // May be empty
}

// RequestFilters contains filter options for listing change requests.
type RequestFilters struct {
	ProjectID      string
	StageCode      string
	DecisionStatus string
}
