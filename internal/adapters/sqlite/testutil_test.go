// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema, preventing drift between test and production.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/stagetrack/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema and
// the built-in stage catalog. This is the single shared test database setup
// function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	if err := db.SeedStageTemplates(testDB); err != nil {
		t.Fatalf("failed to seed stage templates: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProject inserts a test project and returns its ID.
func seedProject(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "PROJ-001"
	}
	if name == "" {
		name = "Test Project"
	}
	_, err := db.Exec("INSERT INTO projects (id, name, template_version) VALUES (?, ?, 'v1')", id, name)
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return id
}

// seedStage inserts a project stage row with the given status.
func seedStage(t *testing.T, db *sql.DB, projectID, stageCode, status string) {
	t.Helper()
	if status == "" {
		status = "not_started"
	}
	_, err := db.Exec(
		"INSERT INTO project_stages (project_id, stage_code, status) VALUES (?, ?, ?)",
		projectID, stageCode, status,
	)
	if err != nil {
		t.Fatalf("failed to seed stage: %v", err)
	}
}

// seedAllStages provisions the full v1 stage set for a project.
func seedAllStages(t *testing.T, db *sql.DB, projectID string) {
	t.Helper()
	for _, code := range []string{"FS", "IPA", "SOW", "AON", "BM", "COB", "PNC", "SO"} {
		seedStage(t, db, projectID, code, "not_started")
	}
}

// seedRequest inserts a pending change request and returns its ID.
func seedRequest(t *testing.T, db *sql.DB, id, projectID, stageCode, requestedStatus string) string {
	t.Helper()
	if id == "" {
		id = "REQ-001"
	}
	if requestedStatus == "" {
		requestedStatus = "in_progress"
	}
	_, err := db.Exec(
		"INSERT INTO stage_change_requests (id, project_id, stage_code, requested_status, requested_by, requested_on, decision_status) VALUES (?, ?, ?, ?, 'alice', '2024-01-10T09:00:00Z', 'pending')",
		id, projectID, stageCode, requestedStatus,
	)
	if err != nil {
		t.Fatalf("failed to seed change request: %v", err)
	}
	return id
}
