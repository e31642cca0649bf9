// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// StageRepository implements secondary.StageRepository with SQLite.
type StageRepository struct {
	db *sql.DB
}

// NewStageRepository creates a new SQLite stage repository.
func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{db: db}
}

const stageColumns = `project_id, stage_code, status, actual_start, completed_on, auto_completed, auto_completed_from, requires_backfill, version, created_at, updated_at`

// GetByProjectAndCode retrieves the stage row for (project, stage code).
func (r *StageRepository) GetByProjectAndCode(ctx context.Context, projectID, stageCode string) (*secondary.ProjectStageRecord, error) {
	record, err := scanStage(r.db.QueryRowContext(ctx,
		`SELECT `+stageColumns+` FROM project_stages WHERE project_id = ? AND stage_code = ?`,
		projectID, stageCode,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stage %s for project %s: %w", stageCode, projectID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project stage: %w", err)
	}
	return record, nil
}

// ListByProject retrieves all stage rows for a project.
func (r *StageRepository) ListByProject(ctx context.Context, projectID string) ([]*secondary.ProjectStageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stageColumns+` FROM project_stages WHERE project_id = ? ORDER BY stage_code`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list project stages: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ProjectStageRecord
	for rows.Next() {
		record, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project stage: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SaveTransition persists the mutated stage rows and their change log rows in
// a single transaction. Each stage row is written with a version-check
// predicate: if any row was modified concurrently, nothing commits and
// ErrVersionConflict is returned for the caller to retry with fresh data.
func (r *StageRepository) SaveTransition(ctx context.Context, stages []*secondary.ProjectStageRecord, logs []*secondary.StageChangeLogRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, st := range stages {
		result, err := tx.ExecContext(ctx,
			`UPDATE project_stages
			 SET status = ?, actual_start = ?, completed_on = ?, auto_completed = ?, auto_completed_from = ?, requires_backfill = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
			 WHERE project_id = ? AND stage_code = ? AND version = ?`,
			st.Status,
			nullString(st.ActualStart),
			nullString(st.CompletedOn),
			st.AutoCompleted,
			nullString(st.AutoCompletedFrom),
			st.RequiresBackfill,
			st.ProjectID,
			st.StageCode,
			st.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update stage %s: %w", st.StageCode, err)
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			return fmt.Errorf("stage %s for project %s: %w", st.StageCode, st.ProjectID, secondary.ErrVersionConflict)
		}
	}

	// Audit rows are part of the transaction: if a log write fails, the
	// whole operation fails.
	for _, log := range logs {
		if err := insertChangeLog(ctx, tx, log); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}
	return nil
}

// ClearBackfill clears the requires_backfill flag on a stage row.
func (r *StageRepository) ClearBackfill(ctx context.Context, projectID, stageCode string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE project_stages SET requires_backfill = 0, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE project_id = ? AND stage_code = ?`,
		projectID, stageCode,
	)
	if err != nil {
		return fmt.Errorf("failed to clear backfill flag: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("stage %s for project %s: %w", stageCode, projectID, secondary.ErrNotFound)
	}
	return nil
}

// scanStage scans one project stage row from a row scanner.
func scanStage(row interface{ Scan(dest ...any) error }) (*secondary.ProjectStageRecord, error) {
	var (
		actualStart       sql.NullString
		completedOn       sql.NullString
		autoCompletedFrom sql.NullString
		createdAt         time.Time
		updatedAt         time.Time
	)

	record := &secondary.ProjectStageRecord{}
	err := row.Scan(
		&record.ProjectID,
		&record.StageCode,
		&record.Status,
		&actualStart,
		&completedOn,
		&record.AutoCompleted,
		&autoCompletedFrom,
		&record.RequiresBackfill,
		&record.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ActualStart = actualStart.String
	record.CompletedOn = completedOn.String
	record.AutoCompletedFrom = autoCompletedFrom.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Ensure StageRepository implements the interface
var _ secondary.StageRepository = (*StageRepository)(nil)
