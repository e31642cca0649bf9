package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/stagetrack/internal/core/stage"
	"github.com/example/stagetrack/internal/ctxutil"
	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/ports/secondary"
)

// DecisionServiceImpl implements the DecisionService interface. It owns the
// two-step request/decide workflow and delegates approved transitions to the
// progress engine. A successful approval therefore produces two audit rows:
// the Approved row written here (what was decided and by whom) and the
// Applied row(s) written by the engine (what actually changed).
type DecisionServiceImpl struct {
	requestRepo secondary.ChangeRequestRepository
	stageRepo   secondary.StageRepository
	projectRepo secondary.ProjectRepository
	catalog     secondary.StageCatalog
	progress    primary.ProgressService
	clock       secondary.Clock
}

// NewDecisionService creates a new DecisionService with injected dependencies.
func NewDecisionService(
	requestRepo secondary.ChangeRequestRepository,
	stageRepo secondary.StageRepository,
	projectRepo secondary.ProjectRepository,
	catalog secondary.StageCatalog,
	progress primary.ProgressService,
	clock secondary.Clock,
) *DecisionServiceImpl {
	return &DecisionServiceImpl{
		requestRepo: requestRepo,
		stageRepo:   stageRepo,
		projectRepo: projectRepo,
		catalog:     catalog,
		progress:    progress,
		clock:       clock,
	}
}

// SubmitRequest creates a pending change request and its Requested log row.
func (s *DecisionServiceImpl) SubmitRequest(ctx context.Context, req primary.SubmitRequestInput) (*primary.ChangeRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestedStatus, err := stage.ParseStatus(req.RequestedStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := parseOptionalDate(req.RequestedDate); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, req.RequestedDate)
	}

	stageRec, err := s.stageRepo.GetByProjectAndCode(ctx, req.ProjectID, req.StageCode)
	if err != nil {
		return nil, err
	}

	id, err := s.requestRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate request ID: %w", err)
	}

	actorID := ctxutil.ActorFromContext(ctx)
	note := strings.TrimSpace(req.Note)

	record := &secondary.StageChangeRequestRecord{
		ID:              id,
		ProjectID:       req.ProjectID,
		StageCode:       req.StageCode,
		RequestedStatus: string(requestedStatus),
		RequestedDate:   req.RequestedDate,
		Note:            note,
		RequestedBy:     actorID,
		RequestedOn:     s.clock.Now().Format(time.RFC3339),
		DecisionStatus:  string(stage.DecisionPending),
	}

	log := &secondary.StageChangeLogRecord{
		RequestID:  id,
		ProjectID:  req.ProjectID,
		StageCode:  req.StageCode,
		Action:     string(stage.ActionRequested),
		FromStatus: stageRec.Status,
		ToStatus:   string(requestedStatus),
		Note:       note,
		ActorID:    actorID,
	}

	if err := s.requestRepo.Create(ctx, record, log); err != nil {
		return nil, fmt.Errorf("failed to create change request: %w", err)
	}

	return requestToPort(record), nil
}

// Decide approves or rejects a pending change request.
func (s *DecisionServiceImpl) Decide(ctx context.Context, req primary.DecideInput) (*primary.DecideResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if errors.Is(err, secondary.ErrNotFound) {
		return &primary.DecideResult{Outcome: primary.OutcomeNotFound, Reason: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}

	guard := stage.CanDecide(stage.DecideContext{
		RequestID:      record.ID,
		DecisionStatus: stage.DecisionStatus(record.DecisionStatus),
	})
	if !guard.Allowed {
		return &primary.DecideResult{Outcome: primary.OutcomeAlreadyDecided, Reason: guard.Reason}, nil
	}

	note := strings.TrimSpace(req.Note)

	switch req.Action {
	case primary.ActionReject:
		return s.reject(ctx, record, note)
	case primary.ActionApprove:
		return s.approve(ctx, record, note)
	default:
		return nil, fmt.Errorf("%w: invalid decide action %q", ErrValidation, req.Action)
	}
}

// reject marks the request rejected and writes one Rejected log row. The
// referenced project stage is left untouched.
func (s *DecisionServiceImpl) reject(ctx context.Context, record *secondary.StageChangeRequestRecord, note string) (*primary.DecideResult, error) {
	if note == "" {
		return &primary.DecideResult{
			Outcome: primary.OutcomeValidationFailed,
			Reason:  "decision note is required to reject a request",
		}, nil
	}

	priorStatus := ""
	stageRec, err := s.stageRepo.GetByProjectAndCode(ctx, record.ProjectID, record.StageCode)
	if err != nil && !errors.Is(err, secondary.ErrNotFound) {
		return nil, err
	}
	if stageRec != nil {
		priorStatus = stageRec.Status
	}

	actorID := ctxutil.ActorFromContext(ctx)
	decision := secondary.Decision{
		Status:    string(stage.DecisionRejected),
		Note:      note,
		DecidedBy: actorID,
		DecidedOn: s.clock.Now().Format(time.RFC3339),
	}
	log := &secondary.StageChangeLogRecord{
		RequestID:  record.ID,
		ProjectID:  record.ProjectID,
		StageCode:  record.StageCode,
		Action:     string(stage.ActionRejected),
		FromStatus: priorStatus,
		ToStatus:   record.RequestedStatus,
		Note:       note,
		ActorID:    actorID,
	}

	if err := s.requestRepo.Decide(ctx, record.ID, decision, log); err != nil {
		if errors.Is(err, secondary.ErrAlreadyDecided) {
			return &primary.DecideResult{Outcome: primary.OutcomeAlreadyDecided, Reason: err.Error()}, nil
		}
		return nil, err
	}

	return &primary.DecideResult{Outcome: primary.OutcomeSuccess}, nil
}

// approve re-resolves the current stage, collects advisory warnings, clamps
// an inconsistent completion date, delegates to the progress engine, and on
// engine success records the approval.
func (s *DecisionServiceImpl) approve(ctx context.Context, record *secondary.StageChangeRequestRecord, note string) (*primary.DecideResult, error) {
	stageRec, err := s.stageRepo.GetByProjectAndCode(ctx, record.ProjectID, record.StageCode)
	if errors.Is(err, secondary.ErrNotFound) {
		return &primary.DecideResult{Outcome: primary.OutcomeNotFound, Reason: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}

	var warnings []string

	// Clamp a completion date that precedes the stage's recorded start. When
	// the start is still unset the engine backfills it from the completion
	// date, so no clamp is needed.
	effectiveDate := record.RequestedDate
	if record.RequestedStatus == string(stage.StatusCompleted) && record.RequestedDate != "" && stageRec.ActualStart != "" {
		requested, err := stage.ParseDate(record.RequestedDate)
		if err != nil {
			return &primary.DecideResult{
				Outcome: primary.OutcomeValidationFailed,
				Reason:  fmt.Sprintf("request %s has malformed date %q", record.ID, record.RequestedDate),
			}, nil
		}
		start, err := stage.ParseDate(stageRec.ActualStart)
		if err != nil {
			return nil, fmt.Errorf("stage %s has malformed actual start %q: %w", record.StageCode, stageRec.ActualStart, err)
		}
		if clamped, wasClamped := stage.ClampCompletionDate(requested, start); wasClamped {
			effectiveDate = stage.FormatDate(clamped)
			warnings = append(warnings, stage.ClampWarning(clamped))
		}
	}

	if w, err := s.predecessorWarning(ctx, record); err != nil {
		return nil, err
	} else if w != "" {
		warnings = append(warnings, w)
	}

	_, err = s.progress.ApplyTransition(ctx, primary.TransitionRequest{
		ProjectID: record.ProjectID,
		StageCode: record.StageCode,
		NewStatus: record.RequestedStatus,
		Date:      effectiveDate,
		Note:      note,
		RequestID: record.ID,
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			// Hard engine failure: the request stays pending.
			return &primary.DecideResult{
				Outcome:  primary.OutcomeValidationFailed,
				Warnings: warnings,
				Reason:   err.Error(),
			}, nil
		}
		if errors.Is(err, secondary.ErrNotFound) {
			return &primary.DecideResult{Outcome: primary.OutcomeNotFound, Reason: err.Error()}, nil
		}
		return nil, err
	}

	actorID := ctxutil.ActorFromContext(ctx)
	decision := secondary.Decision{
		Status:    string(stage.DecisionApproved),
		Note:      stage.DecisionNoteWithWarnings(note, warnings),
		DecidedBy: actorID,
		DecidedOn: s.clock.Now().Format(time.RFC3339),
	}

	// Decision-level row: prior status to requested status, original note.
	// The engine has already written the Applied row(s) for the mutation.
	log := &secondary.StageChangeLogRecord{
		RequestID:       record.ID,
		ProjectID:       record.ProjectID,
		StageCode:       record.StageCode,
		Action:          string(stage.ActionApproved),
		FromStatus:      stageRec.Status,
		ToStatus:        record.RequestedStatus,
		FromActualStart: stageRec.ActualStart,
		FromCompletedOn: stageRec.CompletedOn,
		Note:            note,
		ActorID:         actorID,
	}
	switch record.RequestedStatus {
	case string(stage.StatusCompleted):
		log.ToCompletedOn = effectiveDate
	case string(stage.StatusInProgress):
		log.ToActualStart = record.RequestedDate
	}

	if err := s.requestRepo.Decide(ctx, record.ID, decision, log); err != nil {
		if errors.Is(err, secondary.ErrAlreadyDecided) {
			return &primary.DecideResult{Outcome: primary.OutcomeAlreadyDecided, Reason: err.Error()}, nil
		}
		return nil, err
	}

	return &primary.DecideResult{Outcome: primary.OutcomeSuccess, Warnings: warnings}, nil
}

// predecessorWarning builds the advisory warning naming incomplete stages
// with a lower sequence than the request's target. It never blocks approval.
func (s *DecisionServiceImpl) predecessorWarning(ctx context.Context, record *secondary.StageChangeRequestRecord) (string, error) {
	project, err := s.projectRepo.GetByID(ctx, record.ProjectID)
	if err != nil {
		return "", err
	}
	defs, err := s.catalog.GetStages(ctx, project.TemplateVersion)
	if err != nil {
		return "", fmt.Errorf("failed to load stage catalog: %w", err)
	}
	records, err := s.stageRepo.ListByProject(ctx, record.ProjectID)
	if err != nil {
		return "", err
	}

	targetSeq := -1
	for _, d := range defs {
		if d.Code == record.StageCode {
			targetSeq = d.Sequence
		}
	}
	if targetSeq < 0 {
		return "", nil
	}

	codes := stage.IncompletePredecessors(cascadeEntries(defs, records), targetSeq)
	if len(codes) == 0 {
		return "", nil
	}
	return stage.IncompletePredecessorsWarning(codes), nil
}

// GetRequest retrieves a change request by ID.
func (s *DecisionServiceImpl) GetRequest(ctx context.Context, requestID string) (*primary.ChangeRequest, error) {
	record, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return requestToPort(record), nil
}

// ListRequests lists change requests with optional filters.
func (s *DecisionServiceImpl) ListRequests(ctx context.Context, filters primary.RequestFilters) ([]*primary.ChangeRequest, error) {
	records, err := s.requestRepo.List(ctx, secondary.ChangeRequestFilters{
		ProjectID:      filters.ProjectID,
		StageCode:      filters.StageCode,
		DecisionStatus: filters.DecisionStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list change requests: %w", err)
	}

	requests := make([]*primary.ChangeRequest, len(records))
	for i, r := range records {
		requests[i] = requestToPort(r)
	}
	return requests, nil
}

func requestToPort(r *secondary.StageChangeRequestRecord) *primary.ChangeRequest {
	return &primary.ChangeRequest{
		ID:              r.ID,
		ProjectID:       r.ProjectID,
		StageCode:       r.StageCode,
		RequestedStatus: r.RequestedStatus,
		RequestedDate:   r.RequestedDate,
		Note:            r.Note,
		RequestedBy:     r.RequestedBy,
		RequestedOn:     r.RequestedOn,
		DecisionStatus:  r.DecisionStatus,
		DecisionNote:    r.DecisionNote,
		DecidedBy:       r.DecidedBy,
		DecidedOn:       r.DecidedOn,
	}
}

// Ensure DecisionServiceImpl implements the interface
var _ primary.DecisionService = (*DecisionServiceImpl)(nil)
