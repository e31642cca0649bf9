package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// CatalogRepository implements secondary.StageCatalog with SQLite.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new SQLite stage catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetStages returns the stage definitions for a template version, ordered by
// sequence.
func (r *CatalogRepository) GetStages(ctx context.Context, templateVersion string) ([]secondary.StageDef, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, name, sequence, optional, requires_fact FROM stage_templates WHERE template_version = ? ORDER BY sequence`,
		templateVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage template: %w", err)
	}
	defer rows.Close()

	var defs []secondary.StageDef
	for rows.Next() {
		var def secondary.StageDef
		err := rows.Scan(&def.Code, &def.Name, &def.Sequence, &def.Optional, &def.RequiresFact)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stage definition: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// Ensure CatalogRepository implements the interface
var _ secondary.StageCatalog = (*CatalogRepository)(nil)
