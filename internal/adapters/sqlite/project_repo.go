package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// ProjectRepository implements secondary.ProjectRepository with SQLite.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new SQLite project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists a new project together with its provisioned stage rows in a
// single transaction.
func (r *ProjectRepository) Create(ctx context.Context, project *secondary.ProjectRecord, stages []*secondary.ProjectStageRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, template_version) VALUES (?, ?, ?)`,
		project.ID, project.Name, project.TemplateVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	for _, st := range stages {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO project_stages (project_id, stage_code, status) VALUES (?, ?, ?)`,
			st.ProjectID, st.StageCode, st.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to provision stage %s: %w", st.StageCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*secondary.ProjectRecord, error) {
	record, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT id, name, template_version, created_at, updated_at FROM projects WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return record, nil
}

// List retrieves all projects ordered by creation time.
func (r *ProjectRepository) List(ctx context.Context) ([]*secondary.ProjectRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, template_version, created_at, updated_at FROM projects ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ProjectRecord
	for rows.Next() {
		record, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetNextID returns the next available project ID.
func (r *ProjectRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("PROJ-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM projects", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next project ID: %w", err)
	}
	return fmt.Sprintf("PROJ-%03d", maxID+1), nil
}

// scanProject scans one project row from a row scanner.
func scanProject(row interface{ Scan(dest ...any) error }) (*secondary.ProjectRecord, error) {
	var createdAt, updatedAt time.Time

	record := &secondary.ProjectRecord{}
	err := row.Scan(&record.ID, &record.Name, &record.TemplateVersion, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Ensure ProjectRepository implements the interface
var _ secondary.ProjectRepository = (*ProjectRepository)(nil)
