package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/stagetrack/internal/adapters/sqlite"
	"github.com/example/stagetrack/internal/app"
	"github.com/example/stagetrack/internal/ctxutil"
	"github.com/example/stagetrack/internal/ports/primary"
)

// Integration tests drive the full service stack against a real database to
// verify cross-repository workflows: request lifecycle, cascade writes, and
// the audit trail they leave behind.

func setupServices(t *testing.T) (primary.ProjectService, primary.ProgressService, primary.DecisionService, primary.FactService, primary.LogService) {
	t.Helper()
	testDB := setupTestDB(t)

	projectRepo := sqlite.NewProjectRepository(testDB)
	stageRepo := sqlite.NewStageRepository(testDB)
	requestRepo := sqlite.NewChangeRequestRepository(testDB)
	logRepo := sqlite.NewChangeLogRepository(testDB)
	factRepo := sqlite.NewFactRepository(testDB)
	gateway := sqlite.NewFactsGateway(testDB)
	catalog := sqlite.NewCatalogRepository(testDB)
	clock := app.SystemClock{}

	projectSvc := app.NewProjectService(projectRepo, catalog)
	progressSvc := app.NewProgressService(projectRepo, stageRepo, catalog, gateway, clock)
	decisionSvc := app.NewDecisionService(requestRepo, stageRepo, projectRepo, catalog, progressSvc, clock)
	factSvc := app.NewFactService(factRepo, stageRepo, clock)
	logSvc := app.NewLogService(logRepo)

	return projectSvc, progressSvc, decisionSvc, factSvc, logSvc
}

func TestIntegration_RequestLifecycle(t *testing.T) {
	projectSvc, progressSvc, decisionSvc, _, logSvc := setupServices(t)
	submitCtx := ctxutil.WithActorID(context.Background(), "alice")
	approveCtx := ctxutil.WithActorID(context.Background(), "carol")

	created, err := projectSvc.CreateProject(submitCtx, primary.CreateProjectRequest{Name: "Harbor Crane Replacement"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	projectID := created.ProjectID

	request, err := decisionSvc.SubmitRequest(submitCtx, primary.SubmitRequestInput{
		ProjectID:       projectID,
		StageCode:       "FS",
		RequestedStatus: "in_progress",
		RequestedDate:   "2024-01-15",
		Note:            "kicking off feasibility",
	})
	if err != nil {
		t.Fatalf("SubmitRequest failed: %v", err)
	}
	if request.DecisionStatus != "pending" {
		t.Fatalf("request status = %s, want pending", request.DecisionStatus)
	}

	result, err := decisionSvc.Decide(approveCtx, primary.DecideInput{
		RequestID: request.ID,
		Action:    primary.ActionApprove,
	})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if result.Outcome != primary.OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", result.Outcome)
	}

	st, err := progressSvc.GetStage(approveCtx, projectID, "FS")
	if err != nil {
		t.Fatalf("GetStage failed: %v", err)
	}
	if st.Status != "in_progress" {
		t.Errorf("stage status = %s, want in_progress", st.Status)
	}
	if st.ActualStart != "2024-01-15" {
		t.Errorf("actual start = %s, want 2024-01-15", st.ActualStart)
	}

	decided, err := decisionSvc.GetRequest(approveCtx, request.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if decided.DecisionStatus != "approved" {
		t.Errorf("decision status = %s, want approved", decided.DecisionStatus)
	}
	if decided.DecidedBy != "carol" {
		t.Errorf("decided by = %s, want carol", decided.DecidedBy)
	}

	// Full audit trail: requested, applied (engine), approved (decision).
	logs, err := logSvc.ListLogs(approveCtx, primary.LogFilters{RequestID: request.ID})
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("got %d log rows, want 3", len(logs))
	}
	actions := map[string]int{}
	for _, l := range logs {
		actions[l.Action]++
	}
	for _, action := range []string{"requested", "applied", "approved"} {
		if actions[action] != 1 {
			t.Errorf("got %d %s rows, want 1", actions[action], action)
		}
	}
}

func TestIntegration_CascadeAndBackfill(t *testing.T) {
	projectSvc, progressSvc, _, factSvc, _ := setupServices(t)
	ctx := ctxutil.WithActorID(context.Background(), "alice")

	created, err := projectSvc.CreateProject(ctx, primary.CreateProjectRequest{Name: "Depot Network Refresh"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	projectID := created.ProjectID

	// AON needs a fact before direct completion.
	if _, err := factSvc.RecordFact(ctx, primary.RecordFactRequest{
		ProjectID: projectID, StageCode: "AON", Summary: "necessity accepted by board",
	}); err != nil {
		t.Fatalf("RecordFact failed: %v", err)
	}

	result, err := progressSvc.ApplyTransition(ctx, primary.TransitionRequest{
		ProjectID: projectID,
		StageCode: "AON",
		NewStatus: "completed",
		Date:      "2024-02-01",
	})
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	// AON plus cascaded SOW, IPA, FS.
	if len(result.Changed) != 4 {
		t.Fatalf("got %d changed stages, want 4", len(result.Changed))
	}

	stages, err := progressSvc.ListStages(ctx, projectID)
	if err != nil {
		t.Fatalf("ListStages failed: %v", err)
	}
	byCode := map[string]*primary.ProjectStage{}
	for _, st := range stages {
		byCode[st.StageCode] = st
	}

	if byCode["AON"].Status != "completed" || byCode["AON"].AutoCompleted {
		t.Errorf("AON = %+v, want direct completion", byCode["AON"])
	}
	for _, code := range []string{"IPA", "SOW"} {
		st := byCode[code]
		if st.Status != "completed" || !st.AutoCompleted || !st.RequiresBackfill {
			t.Errorf("%s = %+v, want auto-completed with backfill", code, st)
		}
		if st.AutoCompletedFrom != "AON" {
			t.Errorf("%s auto-completed from %s, want AON", code, st.AutoCompletedFrom)
		}
		if st.CompletedOn != "2024-02-01" {
			t.Errorf("%s completed on %s, want trigger date", code, st.CompletedOn)
		}
	}
	if byCode["FS"].RequiresBackfill {
		t.Error("FS flagged for backfill despite needing no fact")
	}
	if byCode["BM"].Status != "not_started" {
		t.Errorf("BM status = %s, want untouched", byCode["BM"].Status)
	}

	// Recording the missing fact resolves the backfill flag.
	if _, err := factSvc.RecordFact(ctx, primary.RecordFactRequest{
		ProjectID: projectID, StageCode: "SOW", Summary: "scope document attached",
	}); err != nil {
		t.Fatalf("RecordFact failed: %v", err)
	}
	sow, err := progressSvc.GetStage(ctx, projectID, "SOW")
	if err != nil {
		t.Fatalf("GetStage failed: %v", err)
	}
	if sow.RequiresBackfill {
		t.Error("SOW still flagged for backfill after fact recorded")
	}
}

func TestIntegration_RejectionLeavesStageUntouched(t *testing.T) {
	projectSvc, progressSvc, decisionSvc, _, _ := setupServices(t)
	ctx := ctxutil.WithActorID(context.Background(), "alice")

	created, err := projectSvc.CreateProject(ctx, primary.CreateProjectRequest{Name: "Radar Station Upgrade"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	request, err := decisionSvc.SubmitRequest(ctx, primary.SubmitRequestInput{
		ProjectID:       created.ProjectID,
		StageCode:       "FS",
		RequestedStatus: "completed",
	})
	if err != nil {
		t.Fatalf("SubmitRequest failed: %v", err)
	}

	result, err := decisionSvc.Decide(ctx, primary.DecideInput{
		RequestID: request.ID,
		Action:    primary.ActionReject,
		Note:      "premature, feasibility not started",
	})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if result.Outcome != primary.OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", result.Outcome)
	}

	st, err := progressSvc.GetStage(ctx, created.ProjectID, "FS")
	if err != nil {
		t.Fatalf("GetStage failed: %v", err)
	}
	if st.Status != "not_started" {
		t.Errorf("stage status = %s, want not_started after rejection", st.Status)
	}

	// Deciding again reports already decided.
	again, err := decisionSvc.Decide(ctx, primary.DecideInput{
		RequestID: request.ID,
		Action:    primary.ActionApprove,
	})
	if err != nil {
		t.Fatalf("second Decide failed: %v", err)
	}
	if again.Outcome != primary.OutcomeAlreadyDecided {
		t.Errorf("outcome = %s, want already_decided", again.Outcome)
	}
}
