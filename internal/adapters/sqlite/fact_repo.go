package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// FactRepository implements secondary.FactRepository with SQLite.
type FactRepository struct {
	db *sql.DB
}

// NewFactRepository creates a new SQLite fact repository.
func NewFactRepository(db *sql.DB) *FactRepository {
	return &FactRepository{db: db}
}

// Create persists a new fact.
func (r *FactRepository) Create(ctx context.Context, fact *secondary.StageFactRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stage_facts (id, project_id, stage_code, summary, recorded_by, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fact.ID, fact.ProjectID, fact.StageCode, fact.Summary, fact.RecordedBy, fact.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fact: %w", err)
	}
	return nil
}

// List retrieves facts for a project, optionally filtered by stage code.
func (r *FactRepository) List(ctx context.Context, projectID, stageCode string) ([]*secondary.StageFactRecord, error) {
	query := `SELECT id, project_id, stage_code, summary, recorded_by, recorded_at FROM stage_facts WHERE project_id = ?`
	args := []any{projectID}

	if stageCode != "" {
		query += " AND stage_code = ?"
		args = append(args, stageCode)
	}

	query += " ORDER BY recorded_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	defer rows.Close()

	var facts []*secondary.StageFactRecord
	for rows.Next() {
		var recordedAt time.Time
		fact := &secondary.StageFactRecord{}
		err := rows.Scan(&fact.ID, &fact.ProjectID, &fact.StageCode, &fact.Summary, &fact.RecordedBy, &recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		fact.RecordedAt = recordedAt.Format(time.RFC3339)
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

// GetNextID returns the next available fact ID.
func (r *FactRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("FACT-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM stage_facts", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next fact ID: %w", err)
	}
	return fmt.Sprintf("FACT-%03d", maxID+1), nil
}

// FactsGateway implements secondary.FactsGateway backed by the stage catalog's
// fact requirements and the recorded stage facts.
type FactsGateway struct {
	db *sql.DB
}

// NewFactsGateway creates a new SQLite-backed facts gateway.
func NewFactsGateway(db *sql.DB) *FactsGateway {
	return &FactsGateway{db: db}
}

// RequiresFact reports whether the stage code requires a supporting fact.
// Unknown stage codes require nothing.
func (g *FactsGateway) RequiresFact(ctx context.Context, stageCode string) (bool, error) {
	var required int
	err := g.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(requires_fact), 0) FROM stage_templates WHERE code = ?`,
		stageCode,
	).Scan(&required)
	if err != nil {
		return false, fmt.Errorf("failed to check fact requirement: %w", err)
	}
	return required != 0, nil
}

// HasFact reports whether a fact is recorded for (project, stage code).
func (g *FactsGateway) HasFact(ctx context.Context, projectID, stageCode string) (bool, error) {
	var count int
	err := g.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stage_facts WHERE project_id = ? AND stage_code = ?`,
		projectID, stageCode,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check facts: %w", err)
	}
	return count > 0, nil
}

// Ensure implementations satisfy the interfaces
var _ secondary.FactRepository = (*FactRepository)(nil)
var _ secondary.FactsGateway = (*FactsGateway)(nil)
