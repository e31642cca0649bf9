package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/stagetrack/internal/core/stage"
	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/ports/secondary"
)

// DefaultTemplateVersion is the lifecycle template used when none is given.
const DefaultTemplateVersion = "v1"

// ProjectServiceImpl implements the ProjectService interface.
type ProjectServiceImpl struct {
	projectRepo secondary.ProjectRepository
	catalog     secondary.StageCatalog
}

// NewProjectService creates a new ProjectService with injected dependencies.
func NewProjectService(projectRepo secondary.ProjectRepository, catalog secondary.StageCatalog) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		projectRepo: projectRepo,
		catalog:     catalog,
	}
}

// CreateProject creates a project and provisions one not_started stage row
// per stage of its lifecycle template, in a single transaction.
func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req primary.CreateProjectRequest) (*primary.CreateProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrValidation)
	}

	templateVersion := req.TemplateVersion
	if templateVersion == "" {
		templateVersion = DefaultTemplateVersion
	}

	defs, err := s.catalog.GetStages(ctx, templateVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage catalog: %w", err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: unknown template version %q", ErrValidation, templateVersion)
	}

	id, err := s.projectRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate project ID: %w", err)
	}

	record := &secondary.ProjectRecord{
		ID:              id,
		Name:            name,
		TemplateVersion: templateVersion,
	}

	stages := make([]*secondary.ProjectStageRecord, 0, len(defs))
	for _, d := range defs {
		stages = append(stages, &secondary.ProjectStageRecord{
			ProjectID: id,
			StageCode: d.Code,
			Status:    string(stage.InitialStatus()),
		})
	}

	if err := s.projectRepo.Create(ctx, record, stages); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	created, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created project: %w", err)
	}

	resp := &primary.CreateProjectResponse{
		ProjectID: created.ID,
		Project:   projectToPort(created),
		Stages:    make([]*primary.ProjectStage, 0, len(stages)),
	}
	for i, st := range stages {
		resp.Stages = append(resp.Stages, stageToPort(st, defs[i]))
	}
	return resp, nil
}

// GetProject retrieves a project by ID.
func (s *ProjectServiceImpl) GetProject(ctx context.Context, projectID string) (*primary.Project, error) {
	record, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return projectToPort(record), nil
}

// ListProjects retrieves all projects.
func (s *ProjectServiceImpl) ListProjects(ctx context.Context) ([]*primary.Project, error) {
	records, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*primary.Project, len(records))
	for i, r := range records {
		projects[i] = projectToPort(r)
	}
	return projects, nil
}

func projectToPort(r *secondary.ProjectRecord) *primary.Project {
	return &primary.Project{
		ID:              r.ID,
		Name:            r.Name,
		TemplateVersion: r.TemplateVersion,
		CreatedAt:       r.CreatedAt,
	}
}

// Ensure ProjectServiceImpl implements the interface
var _ primary.ProjectService = (*ProjectServiceImpl)(nil)
