package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// fixedClock implements secondary.Clock with a constant time.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func testClock(day string) fixedClock {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return fixedClock{t: t}
}

// stageKey builds the map key for (project, stage code).
func stageKey(projectID, stageCode string) string {
	return projectID + "/" + stageCode
}

// mockProjectRepository implements secondary.ProjectRepository for testing.
type mockProjectRepository struct {
	projects      map[string]*secondary.ProjectRecord
	createdStages []*secondary.ProjectStageRecord
	createErr     error
	getErr        error
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{projects: make(map[string]*secondary.ProjectRecord)}
}

func (m *mockProjectRepository) Create(ctx context.Context, project *secondary.ProjectRecord, stages []*secondary.ProjectStageRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.projects[project.ID] = project
	m.createdStages = append(m.createdStages, stages...)
	return nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id string) (*secondary.ProjectRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %s: %w", id, secondary.ErrNotFound)
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*secondary.ProjectRecord, error) {
	var result []*secondary.ProjectRecord
	for _, p := range m.projects {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockProjectRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("PROJ-%03d", len(m.projects)+1), nil
}

// mockStageRepository implements secondary.StageRepository for testing.
type mockStageRepository struct {
	stages        map[string]*secondary.ProjectStageRecord
	savedLogs     []*secondary.StageChangeLogRecord
	saveCalls     int
	saveErr       error
	clearedCodes  []string
	clearBackfill error
}

func newMockStageRepository() *mockStageRepository {
	return &mockStageRepository{stages: make(map[string]*secondary.ProjectStageRecord)}
}

func (m *mockStageRepository) seed(rec *secondary.ProjectStageRecord) {
	m.stages[stageKey(rec.ProjectID, rec.StageCode)] = rec
}

func (m *mockStageRepository) get(projectID, stageCode string) *secondary.ProjectStageRecord {
	return m.stages[stageKey(projectID, stageCode)]
}

func (m *mockStageRepository) GetByProjectAndCode(ctx context.Context, projectID, stageCode string) (*secondary.ProjectStageRecord, error) {
	if rec, ok := m.stages[stageKey(projectID, stageCode)]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, fmt.Errorf("stage %s for project %s: %w", stageCode, projectID, secondary.ErrNotFound)
}

func (m *mockStageRepository) ListByProject(ctx context.Context, projectID string) ([]*secondary.ProjectStageRecord, error) {
	var result []*secondary.ProjectStageRecord
	for _, rec := range m.stages {
		if rec.ProjectID == projectID {
			copied := *rec
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockStageRepository) SaveTransition(ctx context.Context, stages []*secondary.ProjectStageRecord, logs []*secondary.StageChangeLogRecord) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, st := range stages {
		copied := *st
		copied.Version = st.Version + 1
		m.stages[stageKey(st.ProjectID, st.StageCode)] = &copied
	}
	m.savedLogs = append(m.savedLogs, logs...)
	return nil
}

func (m *mockStageRepository) ClearBackfill(ctx context.Context, projectID, stageCode string) error {
	if m.clearBackfill != nil {
		return m.clearBackfill
	}
	if rec, ok := m.stages[stageKey(projectID, stageCode)]; ok {
		rec.RequiresBackfill = false
	}
	m.clearedCodes = append(m.clearedCodes, stageCode)
	return nil
}

// logsByAction filters the saved engine logs.
func (m *mockStageRepository) logsByAction(action string) []*secondary.StageChangeLogRecord {
	var result []*secondary.StageChangeLogRecord
	for _, l := range m.savedLogs {
		if l.Action == action {
			result = append(result, l)
		}
	}
	return result
}

// mockChangeRequestRepository implements secondary.ChangeRequestRepository for testing.
type mockChangeRequestRepository struct {
	requests  map[string]*secondary.StageChangeRequestRecord
	logs      []*secondary.StageChangeLogRecord
	createErr error
	decideErr error
}

func newMockChangeRequestRepository() *mockChangeRequestRepository {
	return &mockChangeRequestRepository{requests: make(map[string]*secondary.StageChangeRequestRecord)}
}

func (m *mockChangeRequestRepository) Create(ctx context.Context, request *secondary.StageChangeRequestRecord, log *secondary.StageChangeLogRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.requests[request.ID] = request
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockChangeRequestRepository) GetByID(ctx context.Context, id string) (*secondary.StageChangeRequestRecord, error) {
	if r, ok := m.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("request %s: %w", id, secondary.ErrNotFound)
}

func (m *mockChangeRequestRepository) List(ctx context.Context, filters secondary.ChangeRequestFilters) ([]*secondary.StageChangeRequestRecord, error) {
	var result []*secondary.StageChangeRequestRecord
	for _, r := range m.requests {
		if filters.ProjectID != "" && r.ProjectID != filters.ProjectID {
			continue
		}
		if filters.StageCode != "" && r.StageCode != filters.StageCode {
			continue
		}
		if filters.DecisionStatus != "" && r.DecisionStatus != filters.DecisionStatus {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockChangeRequestRepository) Decide(ctx context.Context, id string, decision secondary.Decision, log *secondary.StageChangeLogRecord) error {
	if m.decideErr != nil {
		return m.decideErr
	}
	r, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("request %s: %w", id, secondary.ErrNotFound)
	}
	if r.DecisionStatus != "pending" {
		return fmt.Errorf("request %s: %w", id, secondary.ErrAlreadyDecided)
	}
	r.DecisionStatus = decision.Status
	r.DecisionNote = decision.Note
	r.DecidedBy = decision.DecidedBy
	r.DecidedOn = decision.DecidedOn
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockChangeRequestRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("REQ-%03d", len(m.requests)+1), nil
}

func (m *mockChangeRequestRepository) logsByAction(action string) []*secondary.StageChangeLogRecord {
	var result []*secondary.StageChangeLogRecord
	for _, l := range m.logs {
		if l.Action == action {
			result = append(result, l)
		}
	}
	return result
}

// mockStageCatalog implements secondary.StageCatalog for testing.
type mockStageCatalog struct {
	defs []secondary.StageDef
	err  error
}

func (m *mockStageCatalog) GetStages(ctx context.Context, templateVersion string) ([]secondary.StageDef, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.defs, nil
}

// mockFactsGateway implements secondary.FactsGateway for testing.
type mockFactsGateway struct {
	requires map[string]bool // stage code -> requires fact
	facts    map[string]bool // projectID/code -> fact exists
}

func newMockFactsGateway() *mockFactsGateway {
	return &mockFactsGateway{
		requires: make(map[string]bool),
		facts:    make(map[string]bool),
	}
}

func (m *mockFactsGateway) RequiresFact(ctx context.Context, stageCode string) (bool, error) {
	return m.requires[stageCode], nil
}

func (m *mockFactsGateway) HasFact(ctx context.Context, projectID, stageCode string) (bool, error) {
	return m.facts[stageKey(projectID, stageCode)], nil
}

// mockFactRepository implements secondary.FactRepository for testing.
type mockFactRepository struct {
	facts     map[string]*secondary.StageFactRecord
	createErr error
}

func newMockFactRepository() *mockFactRepository {
	return &mockFactRepository{facts: make(map[string]*secondary.StageFactRecord)}
}

func (m *mockFactRepository) Create(ctx context.Context, fact *secondary.StageFactRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.facts[fact.ID] = fact
	return nil
}

func (m *mockFactRepository) List(ctx context.Context, projectID, stageCode string) ([]*secondary.StageFactRecord, error) {
	var result []*secondary.StageFactRecord
	for _, f := range m.facts {
		if f.ProjectID != projectID {
			continue
		}
		if stageCode != "" && f.StageCode != stageCode {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

func (m *mockFactRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("FACT-%03d", len(m.facts)+1), nil
}

// ============================================================================
// Shared fixtures
// ============================================================================

// defaultTemplateDefs mirrors the seeded v1 lifecycle template.
func defaultTemplateDefs() []secondary.StageDef {
	return []secondary.StageDef{
		{Code: "FS", Name: "Feasibility Study", Sequence: 1},
		{Code: "IPA", Name: "Initial Project Appraisal", Sequence: 2, RequiresFact: true},
		{Code: "SOW", Name: "Statement of Work", Sequence: 3, RequiresFact: true},
		{Code: "AON", Name: "Acceptance of Necessity", Sequence: 4, RequiresFact: true},
		{Code: "BM", Name: "Bulk Manufacture", Sequence: 5},
		{Code: "COB", Name: "Close of Business", Sequence: 6},
		{Code: "PNC", Name: "Price Negotiation", Sequence: 7, Optional: true, RequiresFact: true},
		{Code: "SO", Name: "Supply Order", Sequence: 8},
	}
}

// seedProjectWithStages populates a project and its not_started stage rows.
func seedProjectWithStages(projects *mockProjectRepository, stages *mockStageRepository, projectID string) {
	projects.projects[projectID] = &secondary.ProjectRecord{
		ID:              projectID,
		Name:            "Test Project",
		TemplateVersion: "v1",
	}
	for _, d := range defaultTemplateDefs() {
		stages.seed(&secondary.ProjectStageRecord{
			ProjectID: projectID,
			StageCode: d.Code,
			Status:    "not_started",
		})
	}
}
