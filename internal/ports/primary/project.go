package primary

import "context"

// ProjectService defines the primary port for project operations.
type ProjectService interface {
	// CreateProject creates a project and provisions one not_started stage
	// row per stage of its lifecycle template.
	CreateProject(ctx context.Context, req CreateProjectRequest) (*CreateProjectResponse, error)

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, projectID string) (*Project, error)

	// ListProjects retrieves all projects.
	ListProjects(ctx context.Context) ([]*Project, error)
}

// CreateProjectRequest contains the inputs for creating a project.
type CreateProjectRequest struct {
	Name            string
	TemplateVersion string // Empty means the default template
}

// CreateProjectResponse contains the created project and its stages.
type CreateProjectResponse struct {
	ProjectID string
	Project   *Project
	Stages    []*ProjectStage
}

// Project represents a project entity at the port boundary.
type Project struct {
	ID              string
	Name            string
	TemplateVersion string
	CreatedAt       string
}
