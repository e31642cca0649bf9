package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// ChangeRequestRepository implements secondary.ChangeRequestRepository with SQLite.
type ChangeRequestRepository struct {
	db *sql.DB
}

// NewChangeRequestRepository creates a new SQLite change request repository.
func NewChangeRequestRepository(db *sql.DB) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: db}
}

const requestColumns = `id, project_id, stage_code, requested_status, requested_date, note, requested_by, requested_on, decision_status, decision_note, decided_by, decided_on`

// Create persists a new pending request together with its Requested log row
// in a single transaction.
func (r *ChangeRequestRepository) Create(ctx context.Context, request *secondary.StageChangeRequestRecord, log *secondary.StageChangeLogRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO stage_change_requests (id, project_id, stage_code, requested_status, requested_date, note, requested_by, requested_on, decision_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		request.ID,
		request.ProjectID,
		request.StageCode,
		request.RequestedStatus,
		nullString(request.RequestedDate),
		nullString(request.Note),
		request.RequestedBy,
		request.RequestedOn,
		request.DecisionStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to create change request: %w", err)
	}

	if err := insertChangeLog(ctx, tx, log); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit change request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by its ID.
func (r *ChangeRequestRepository) GetByID(ctx context.Context, id string) (*secondary.StageChangeRequestRecord, error) {
	record, err := scanRequest(r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM stage_change_requests WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("change request %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get change request: %w", err)
	}
	return record, nil
}

// List retrieves requests matching the given filters.
func (r *ChangeRequestRepository) List(ctx context.Context, filters secondary.ChangeRequestFilters) ([]*secondary.StageChangeRequestRecord, error) {
	query := `SELECT ` + requestColumns + ` FROM stage_change_requests WHERE 1=1`
	args := []any{}

	if filters.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filters.ProjectID)
	}
	if filters.StageCode != "" {
		query += " AND stage_code = ?"
		args = append(args, filters.StageCode)
	}
	if filters.DecisionStatus != "" {
		query += " AND decision_status = ?"
		args = append(args, filters.DecisionStatus)
	}

	query += " ORDER BY requested_on, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list change requests: %w", err)
	}
	defer rows.Close()

	var records []*secondary.StageChangeRequestRecord
	for rows.Next() {
		record, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change request: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Decide marks a pending request as approved or rejected together with its
// decision log row, in one transaction. The pending predicate serializes
// concurrent decisions on the same request.
func (r *ChangeRequestRepository) Decide(ctx context.Context, id string, decision secondary.Decision, log *secondary.StageChangeLogRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE stage_change_requests
		 SET decision_status = ?, decision_note = ?, decided_by = ?, decided_on = ?
		 WHERE id = ? AND decision_status = 'pending'`,
		decision.Status,
		nullString(decision.Note),
		decision.DecidedBy,
		decision.DecidedOn,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to decide change request: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM stage_change_requests WHERE id = ?`, id,
		).Scan(&count); err != nil {
			return fmt.Errorf("failed to check change request: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("change request %s: %w", id, secondary.ErrNotFound)
		}
		return fmt.Errorf("change request %s: %w", id, secondary.ErrAlreadyDecided)
	}

	if err := insertChangeLog(ctx, tx, log); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit decision: %w", err)
	}
	return nil
}

// GetNextID returns the next available request ID.
func (r *ChangeRequestRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("REQ-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM stage_change_requests", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next request ID: %w", err)
	}
	return fmt.Sprintf("REQ-%03d", maxID+1), nil
}

// scanRequest scans one change request row from a row scanner.
func scanRequest(row interface{ Scan(dest ...any) error }) (*secondary.StageChangeRequestRecord, error) {
	var (
		requestedDate sql.NullString
		note          sql.NullString
		decisionNote  sql.NullString
		decidedBy     sql.NullString
		decidedOn     sql.NullString
	)

	record := &secondary.StageChangeRequestRecord{}
	err := row.Scan(
		&record.ID,
		&record.ProjectID,
		&record.StageCode,
		&record.RequestedStatus,
		&requestedDate,
		&note,
		&record.RequestedBy,
		&record.RequestedOn,
		&record.DecisionStatus,
		&decisionNote,
		&decidedBy,
		&decidedOn,
	)
	if err != nil {
		return nil, err
	}

	record.RequestedDate = requestedDate.String
	record.Note = note.String
	record.DecisionNote = decisionNote.String
	record.DecidedBy = decidedBy.String
	record.DecidedOn = decidedOn.String
	return record, nil
}

// Ensure ChangeRequestRepository implements the interface
var _ secondary.ChangeRequestRepository = (*ChangeRequestRepository)(nil)
