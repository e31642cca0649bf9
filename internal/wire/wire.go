// Package wire provides dependency injection for the stagetrack application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/stagetrack/internal/adapters/sqlite"
	"github.com/example/stagetrack/internal/app"
	"github.com/example/stagetrack/internal/db"
	"github.com/example/stagetrack/internal/ports/primary"
)

var (
	projectService  primary.ProjectService
	progressService primary.ProgressService
	decisionService primary.DecisionService
	factService     primary.FactService
	logService      primary.LogService
	once            sync.Once
)

// ProjectService returns the singleton ProjectService instance.
func ProjectService() primary.ProjectService {
	once.Do(initServices)
	return projectService
}

// ProgressService returns the singleton ProgressService instance.
func ProgressService() primary.ProgressService {
	once.Do(initServices)
	return progressService
}

// DecisionService returns the singleton DecisionService instance.
func DecisionService() primary.DecisionService {
	once.Do(initServices)
	return decisionService
}

// FactService returns the singleton FactService instance.
func FactService() primary.FactService {
	once.Do(initServices)
	return factService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	projectRepo := sqlite.NewProjectRepository(database)
	stageRepo := sqlite.NewStageRepository(database)
	requestRepo := sqlite.NewChangeRequestRepository(database)
	logRepo := sqlite.NewChangeLogRepository(database)
	factRepo := sqlite.NewFactRepository(database)
	factsGateway := sqlite.NewFactsGateway(database)
	catalog := sqlite.NewCatalogRepository(database)
	clock := app.SystemClock{}

	// Create services (primary ports implementation)
	projectService = app.NewProjectService(projectRepo, catalog)
	progressService = app.NewProgressService(projectRepo, stageRepo, catalog, factsGateway, clock)
	decisionService = app.NewDecisionService(requestRepo, stageRepo, projectRepo, catalog, progressService, clock)
	factService = app.NewFactService(factRepo, stageRepo, clock)
	logService = app.NewLogService(logRepo)
}
