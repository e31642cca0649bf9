package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedStageTemplates populates the built-in stage catalog. Idempotent: runs on
// every startup, existing rows are left alone.
func SeedStageTemplates(database *sql.DB) error {
	stages := []struct {
		code         string
		name         string
		sequence     int
		optional     bool
		requiresFact bool
	}{
		{"FS", "Feasibility Study", 1, false, false},
		{"IPA", "Initial Project Appraisal", 2, false, true},
		{"SOW", "Statement of Work", 3, false, true},
		{"AON", "Acceptance of Necessity", 4, false, true},
		{"BM", "Bulk Manufacture", 5, false, false},
		{"COB", "Close of Business", 6, false, false},
		{"PNC", "Price Negotiation", 7, true, true},
		{"SO", "Supply Order", 8, false, false},
	}

	for _, s := range stages {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO stage_templates (template_version, code, name, sequence, optional, requires_fact) VALUES ('v1', ?, ?, ?, ?, ?)",
			s.code, s.name, s.sequence, s.optional, s.requiresFact,
		); err != nil {
			return fmt.Errorf("seed stage templates: %w", err)
		}
	}
	return nil
}

// SeedFixtures populates the database with development fixtures: a couple of
// projects with provisioned stages and a pending change request to exercise
// the approval flow.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)

	projects := []struct{ id, name string }{
		{"PROJ-001", "Harbor Crane Replacement"},
		{"PROJ-002", "Depot Network Refresh"},
	}
	stageCodes := []string{"FS", "IPA", "SOW", "AON", "BM", "COB", "PNC", "SO"}

	for _, p := range projects {
		if _, err := database.Exec(
			"INSERT INTO projects (id, name, template_version) VALUES (?, ?, 'v1')",
			p.id, p.name,
		); err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
		for _, code := range stageCodes {
			if _, err := database.Exec(
				"INSERT INTO project_stages (project_id, stage_code, status) VALUES (?, ?, 'not_started')",
				p.id, code,
			); err != nil {
				return fmt.Errorf("seed project stages: %w", err)
			}
		}
	}

	if _, err := database.Exec(
		"INSERT INTO stage_change_requests (id, project_id, stage_code, requested_status, note, requested_by, requested_on, decision_status) VALUES ('REQ-001', 'PROJ-001', 'FS', 'in_progress', 'kicking off feasibility', 'alice', ?, 'pending')",
		now,
	); err != nil {
		return fmt.Errorf("seed change requests: %w", err)
	}
	if _, err := database.Exec(
		"INSERT INTO stage_change_logs (id, request_id, project_id, stage_code, action, from_status, to_status, note, actor_id) VALUES ('LOG-001', 'REQ-001', 'PROJ-001', 'FS', 'requested', 'not_started', 'in_progress', 'kicking off feasibility', 'alice')",
	); err != nil {
		return fmt.Errorf("seed change logs: %w", err)
	}

	return nil
}
