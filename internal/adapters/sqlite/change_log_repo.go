package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// ChangeLogRepository implements secondary.ChangeLogRepository with SQLite.
// The stage change log is append-only.
type ChangeLogRepository struct {
	db *sql.DB
}

// NewChangeLogRepository creates a new SQLite change log repository.
func NewChangeLogRepository(db *sql.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

// Append persists a new log entry, assigning its ID.
func (r *ChangeLogRepository) Append(ctx context.Context, log *secondary.StageChangeLogRecord) error {
	return insertChangeLog(ctx, r.db, log)
}

// List retrieves log entries matching the given filters, oldest first.
func (r *ChangeLogRepository) List(ctx context.Context, filters secondary.ChangeLogFilters) ([]*secondary.StageChangeLogRecord, error) {
	query := `SELECT id, request_id, project_id, stage_code, action, from_status, to_status, from_actual_start, to_actual_start, from_completed_on, to_completed_on, note, actor_id, created_at FROM stage_change_logs WHERE 1=1`
	args := []any{}

	if filters.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filters.ProjectID)
	}
	if filters.RequestID != "" {
		query += " AND request_id = ?"
		args = append(args, filters.RequestID)
	}
	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY created_at, CAST(SUBSTR(id, 5) AS INTEGER)"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list change logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.StageChangeLogRecord
	for rows.Next() {
		var (
			requestID       sql.NullString
			fromStatus      sql.NullString
			toStatus        sql.NullString
			fromActualStart sql.NullString
			toActualStart   sql.NullString
			fromCompletedOn sql.NullString
			toCompletedOn   sql.NullString
			note            sql.NullString
			actorID         sql.NullString
			createdAt       time.Time
		)

		record := &secondary.StageChangeLogRecord{}
		err := rows.Scan(
			&record.ID,
			&requestID,
			&record.ProjectID,
			&record.StageCode,
			&record.Action,
			&fromStatus,
			&toStatus,
			&fromActualStart,
			&toActualStart,
			&fromCompletedOn,
			&toCompletedOn,
			&note,
			&actorID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log: %w", err)
		}

		record.RequestID = requestID.String
		record.FromStatus = fromStatus.String
		record.ToStatus = toStatus.String
		record.FromActualStart = fromActualStart.String
		record.ToActualStart = toActualStart.String
		record.FromCompletedOn = fromCompletedOn.String
		record.ToCompletedOn = toCompletedOn.String
		record.Note = note.String
		record.ActorID = actorID.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		logs = append(logs, record)
	}
	return logs, rows.Err()
}

// nextChangeLogID returns the next available change log ID within the given
// connection or transaction.
func nextChangeLogID(ctx context.Context, q dbtx) (string, error) {
	var maxID int
	prefixLen := len("LOG-") + 1
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM stage_change_logs", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next change log ID: %w", err)
	}
	return fmt.Sprintf("LOG-%03d", maxID+1), nil
}

// insertChangeLog assigns an ID and writes one audit row. Shared by the stage
// and request repositories so log rows join their owning transaction.
func insertChangeLog(ctx context.Context, q dbtx, log *secondary.StageChangeLogRecord) error {
	id, err := nextChangeLogID(ctx, q)
	if err != nil {
		return err
	}
	log.ID = id

	_, err = q.ExecContext(ctx,
		`INSERT INTO stage_change_logs (id, request_id, project_id, stage_code, action, from_status, to_status, from_actual_start, to_actual_start, from_completed_on, to_completed_on, note, actor_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		nullString(log.RequestID),
		log.ProjectID,
		log.StageCode,
		log.Action,
		nullString(log.FromStatus),
		nullString(log.ToStatus),
		nullString(log.FromActualStart),
		nullString(log.ToActualStart),
		nullString(log.FromCompletedOn),
		nullString(log.ToCompletedOn),
		nullString(log.Note),
		nullString(log.ActorID),
	)
	if err != nil {
		return fmt.Errorf("failed to write change log: %w", err)
	}
	return nil
}

// Ensure ChangeLogRepository implements the interface
var _ secondary.ChangeLogRepository = (*ChangeLogRepository)(nil)
