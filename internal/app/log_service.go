package app

import (
	"context"
	"fmt"

	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	logRepo secondary.ChangeLogRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(logRepo secondary.ChangeLogRepository) *LogServiceImpl {
	return &LogServiceImpl{logRepo: logRepo}
}

// ListLogs lists change log entries, oldest first.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.ChangeLogEntry, error) {
	records, err := s.logRepo.List(ctx, secondary.ChangeLogFilters{
		ProjectID: filters.ProjectID,
		RequestID: filters.RequestID,
		Action:    filters.Action,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list change logs: %w", err)
	}

	entries := make([]*primary.ChangeLogEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.ChangeLogEntry{
			ID:              r.ID,
			RequestID:       r.RequestID,
			ProjectID:       r.ProjectID,
			StageCode:       r.StageCode,
			Action:          r.Action,
			FromStatus:      r.FromStatus,
			ToStatus:        r.ToStatus,
			FromActualStart: r.FromActualStart,
			ToActualStart:   r.ToActualStart,
			FromCompletedOn: r.FromCompletedOn,
			ToCompletedOn:   r.ToCompletedOn,
			Note:            r.Note,
			ActorID:         r.ActorID,
			CreatedAt:       r.CreatedAt,
		}
	}
	return entries, nil
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
