package app

import (
	"context"
	"fmt"

	"github.com/example/stagetrack/internal/core/stage"
	"github.com/example/stagetrack/internal/ctxutil"
	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/ports/secondary"
)

// ProgressServiceImpl implements the ProgressService interface. It is the
// only writer of project stage rows.
type ProgressServiceImpl struct {
	projectRepo secondary.ProjectRepository
	stageRepo   secondary.StageRepository
	catalog     secondary.StageCatalog
	facts       secondary.FactsGateway
	clock       secondary.Clock
}

// NewProgressService creates a new ProgressService with injected dependencies.
func NewProgressService(
	projectRepo secondary.ProjectRepository,
	stageRepo secondary.StageRepository,
	catalog secondary.StageCatalog,
	facts secondary.FactsGateway,
	clock secondary.Clock,
) *ProgressServiceImpl {
	return &ProgressServiceImpl{
		projectRepo: projectRepo,
		stageRepo:   stageRepo,
		catalog:     catalog,
		facts:       facts,
		clock:       clock,
	}
}

// ApplyTransition applies a single requested status transition and cascades
// completion backward through prerequisite stages. The mutated stage rows and
// their Applied log rows commit in one transaction.
func (s *ProgressServiceImpl) ApplyTransition(ctx context.Context, req primary.TransitionRequest) (*primary.TransitionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	newStatus, err := stage.ParseStatus(req.NewStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	explicitDate, err := parseOptionalDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, req.Date)
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	rec, err := s.stageRepo.GetByProjectAndCode(ctx, req.ProjectID, req.StageCode)
	if err != nil {
		return nil, err
	}

	// The missing-fact check is the only hard failure, and it applies only to
	// the stage being directly completed. Cascaded predecessors are flagged
	// for backfill instead.
	if newStatus == stage.StatusCompleted {
		requires, has, err := s.factState(ctx, req.ProjectID, req.StageCode)
		if err != nil {
			return nil, err
		}
		guard := stage.CanCompleteDirectly(stage.CompletionContext{
			StageCode:    req.StageCode,
			RequiresFact: requires,
			HasFact:      has,
		})
		if !guard.Allowed {
			return nil, fmt.Errorf("%w: %s", ErrValidation, guard.Reason)
		}
	}

	snap, err := recordSnapshot(rec)
	if err != nil {
		return nil, err
	}

	actorID := ctxutil.ActorFromContext(ctx)
	change := stage.ApplyStatusChange(snap, newStatus, explicitDate, s.clock.Now())

	updated := applyChange(rec, change)
	stages := []*secondary.ProjectStageRecord{updated}
	logs := []*secondary.StageChangeLogRecord{appliedLog(rec, updated, req.RequestID, req.Note, actorID)}

	defs, err := s.catalog.GetStages(ctx, project.TemplateVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage catalog: %w", err)
	}

	if newStatus == stage.StatusCompleted {
		cascadeStages, cascadeLogs, err := s.planCascadeMutations(ctx, req, project.TemplateVersion, defs, updated)
		if err != nil {
			return nil, err
		}
		stages = append(stages, cascadeStages...)
		logs = append(logs, cascadeLogs...)
	}

	if err := s.stageRepo.SaveTransition(ctx, stages, logs); err != nil {
		return nil, err
	}

	defByCode := make(map[string]secondary.StageDef, len(defs))
	for _, d := range defs {
		defByCode[d.Code] = d
	}

	result := &primary.TransitionResult{Changed: make([]*primary.ProjectStage, 0, len(stages))}
	for _, st := range stages {
		result.Changed = append(result.Changed, stageToPort(st, defByCode[st.StageCode]))
	}
	return result, nil
}

// planCascadeMutations computes the predecessor mutations and log rows implied
// by the direct completion held in updated. Missing facts never fail here;
// they set the backfill flag.
func (s *ProgressServiceImpl) planCascadeMutations(
	ctx context.Context,
	req primary.TransitionRequest,
	templateVersion string,
	defs []secondary.StageDef,
	updated *secondary.ProjectStageRecord,
) ([]*secondary.ProjectStageRecord, []*secondary.StageChangeLogRecord, error) {
	triggerSeq := -1
	for _, d := range defs {
		if d.Code == req.StageCode {
			triggerSeq = d.Sequence
		}
	}
	if triggerSeq < 0 {
		return nil, nil, fmt.Errorf("stage %s is not part of template %s", req.StageCode, templateVersion)
	}

	records, err := s.stageRepo.ListByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	recordByCode := make(map[string]*secondary.ProjectStageRecord, len(records))
	for _, r := range records {
		recordByCode[r.StageCode] = r
	}

	actorID := ctxutil.ActorFromContext(ctx)
	completionDate := updated.CompletedOn

	var stages []*secondary.ProjectStageRecord
	var logs []*secondary.StageChangeLogRecord
	for _, step := range stage.PlanCascade(cascadeEntries(defs, records), triggerSeq, req.StageCode) {
		prev, ok := recordByCode[step.Code]
		if !ok {
			continue
		}

		next := *prev
		next.AutoCompleted = step.AutoCompleted
		next.AutoCompletedFrom = step.TriggerCode
		next.RequiresBackfill = false

		if step.Status == stage.StatusSkipped {
			next.Status = string(stage.StatusSkipped)
			next.CompletedOn = ""
		} else {
			next.Status = string(stage.StatusCompleted)
			next.CompletedOn = completionDate
			if next.ActualStart == "" {
				next.ActualStart = completionDate
			}
			requires, has, err := s.factState(ctx, req.ProjectID, step.Code)
			if err != nil {
				return nil, nil, err
			}
			next.RequiresBackfill = stage.NeedsBackfill(requires, has)
		}

		stages = append(stages, &next)
		logs = append(logs, appliedLog(prev, &next, req.RequestID, req.Note, actorID))
	}

	return stages, logs, nil
}

// factState answers the fact requirement and presence for one stage code.
func (s *ProgressServiceImpl) factState(ctx context.Context, projectID, stageCode string) (requires, has bool, err error) {
	requires, err = s.facts.RequiresFact(ctx, stageCode)
	if err != nil {
		return false, false, fmt.Errorf("failed to check fact requirement for %s: %w", stageCode, err)
	}
	if !requires {
		return false, false, nil
	}
	has, err = s.facts.HasFact(ctx, projectID, stageCode)
	if err != nil {
		return false, false, fmt.Errorf("failed to check fact presence for %s: %w", stageCode, err)
	}
	return requires, has, nil
}

// GetStage retrieves one project stage joined with its template metadata.
func (s *ProgressServiceImpl) GetStage(ctx context.Context, projectID, stageCode string) (*primary.ProjectStage, error) {
	rec, err := s.stageRepo.GetByProjectAndCode(ctx, projectID, stageCode)
	if err != nil {
		return nil, err
	}

	def, err := s.stageDef(ctx, projectID, stageCode)
	if err != nil {
		return nil, err
	}
	return stageToPort(rec, def), nil
}

// ListStages retrieves all stages of a project in sequence order.
func (s *ProgressServiceImpl) ListStages(ctx context.Context, projectID string) ([]*primary.ProjectStage, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	defs, err := s.catalog.GetStages(ctx, project.TemplateVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage catalog: %w", err)
	}

	records, err := s.stageRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	recordByCode := make(map[string]*secondary.ProjectStageRecord, len(records))
	for _, r := range records {
		recordByCode[r.StageCode] = r
	}

	stages := make([]*primary.ProjectStage, 0, len(defs))
	for _, d := range defs {
		rec, ok := recordByCode[d.Code]
		if !ok {
			continue
		}
		stages = append(stages, stageToPort(rec, d))
	}
	return stages, nil
}

func (s *ProgressServiceImpl) stageDef(ctx context.Context, projectID, stageCode string) (secondary.StageDef, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return secondary.StageDef{}, err
	}
	defs, err := s.catalog.GetStages(ctx, project.TemplateVersion)
	if err != nil {
		return secondary.StageDef{}, fmt.Errorf("failed to load stage catalog: %w", err)
	}
	for _, d := range defs {
		if d.Code == stageCode {
			return d, nil
		}
	}
	return secondary.StageDef{Code: stageCode}, nil
}

// Ensure ProgressServiceImpl implements the interface
var _ primary.ProgressService = (*ProgressServiceImpl)(nil)
