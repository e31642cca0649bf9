package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/stagetrack/internal/ctxutil"
	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/ports/secondary"
)

// FactServiceImpl implements the FactService interface.
type FactServiceImpl struct {
	factRepo  secondary.FactRepository
	stageRepo secondary.StageRepository
	clock     secondary.Clock
}

// NewFactService creates a new FactService with injected dependencies.
func NewFactService(factRepo secondary.FactRepository, stageRepo secondary.StageRepository, clock secondary.Clock) *FactServiceImpl {
	return &FactServiceImpl{
		factRepo:  factRepo,
		stageRepo: stageRepo,
		clock:     clock,
	}
}

// RecordFact records a supporting fact for a project stage. Recording a fact
// for a stage flagged for backfill resolves the flag.
func (s *FactServiceImpl) RecordFact(ctx context.Context, req primary.RecordFactRequest) (*primary.Fact, error) {
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: fact summary is required", ErrValidation)
	}

	stageRec, err := s.stageRepo.GetByProjectAndCode(ctx, req.ProjectID, req.StageCode)
	if err != nil {
		return nil, err
	}

	id, err := s.factRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate fact ID: %w", err)
	}

	record := &secondary.StageFactRecord{
		ID:         id,
		ProjectID:  req.ProjectID,
		StageCode:  req.StageCode,
		Summary:    summary,
		RecordedBy: ctxutil.ActorFromContext(ctx),
		RecordedAt: s.clock.Now().Format(time.RFC3339),
	}

	if err := s.factRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record fact: %w", err)
	}

	if stageRec.RequiresBackfill {
		if err := s.stageRepo.ClearBackfill(ctx, req.ProjectID, req.StageCode); err != nil {
			return nil, fmt.Errorf("failed to clear backfill flag: %w", err)
		}
	}

	return factToPort(record), nil
}

// ListFacts lists facts for a project, optionally filtered by stage code.
func (s *FactServiceImpl) ListFacts(ctx context.Context, projectID, stageCode string) ([]*primary.Fact, error) {
	records, err := s.factRepo.List(ctx, projectID, stageCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}

	facts := make([]*primary.Fact, len(records))
	for i, r := range records {
		facts[i] = factToPort(r)
	}
	return facts, nil
}

func factToPort(r *secondary.StageFactRecord) *primary.Fact {
	return &primary.Fact{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		StageCode:  r.StageCode,
		Summary:    r.Summary,
		RecordedBy: r.RecordedBy,
		RecordedAt: r.RecordedAt,
	}
}

// Ensure FactServiceImpl implements the interface
var _ primary.FactService = (*FactServiceImpl)(nil)
