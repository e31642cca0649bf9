package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/stagetrack/internal/adapters/sqlite"
	"github.com/example/stagetrack/internal/ports/secondary"
)

func TestProjectRepositoryCreate(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewProjectRepository(testDB)

	project := &secondary.ProjectRecord{ID: "PROJ-001", Name: "Harbor Crane Replacement", TemplateVersion: "v1"}
	stages := []*secondary.ProjectStageRecord{
		{ProjectID: "PROJ-001", StageCode: "FS", Status: "not_started"},
		{ProjectID: "PROJ-001", StageCode: "IPA", Status: "not_started"},
	}
	if err := repo.Create(context.Background(), project, stages); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	saved, err := repo.GetByID(context.Background(), "PROJ-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if saved.Name != "Harbor Crane Replacement" {
		t.Errorf("name = %s", saved.Name)
	}
	if saved.TemplateVersion != "v1" {
		t.Errorf("template = %s, want v1", saved.TemplateVersion)
	}

	var stageCount int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM project_stages WHERE project_id = 'PROJ-001'").Scan(&stageCount); err != nil {
		t.Fatalf("failed to count stages: %v", err)
	}
	if stageCount != 2 {
		t.Errorf("got %d stage rows, want 2", stageCount)
	}
}

func TestProjectRepositoryGetNotFound(t *testing.T) {
	repo := sqlite.NewProjectRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), "PROJ-999")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestProjectRepositoryList(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewProjectRepository(testDB)
	seedProject(t, testDB, "PROJ-001", "First")
	seedProject(t, testDB, "PROJ-002", "Second")

	projects, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("got %d projects, want 2", len(projects))
	}
}

func TestProjectRepositoryGetNextID(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewProjectRepository(testDB)

	id, err := repo.GetNextID(context.Background())
	if err != nil {
		t.Fatalf("GetNextID() error = %v", err)
	}
	if id != "PROJ-001" {
		t.Errorf("next ID = %s, want PROJ-001", id)
	}

	seedProject(t, testDB, "PROJ-004", "")
	id, err = repo.GetNextID(context.Background())
	if err != nil {
		t.Fatalf("GetNextID() error = %v", err)
	}
	if id != "PROJ-005" {
		t.Errorf("next ID = %s, want PROJ-005", id)
	}
}
