package app

import (
	"fmt"
	"time"

	"github.com/example/stagetrack/internal/core/stage"
	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/ports/secondary"
)

// parseOptionalDate parses an optional civil date string; empty means absent.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := stage.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// formatOptionalDate formats an optional date; nil means absent.
func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return stage.FormatDate(*t)
}

// recordSnapshot converts a persisted stage row into the functional core's
// snapshot form.
func recordSnapshot(rec *secondary.ProjectStageRecord) (stage.Snapshot, error) {
	snap := stage.Snapshot{Status: stage.Status(rec.Status)}

	start, err := parseOptionalDate(rec.ActualStart)
	if err != nil {
		return snap, fmt.Errorf("stage %s has malformed actual start %q: %w", rec.StageCode, rec.ActualStart, err)
	}
	snap.ActualStart = start

	completed, err := parseOptionalDate(rec.CompletedOn)
	if err != nil {
		return snap, fmt.Errorf("stage %s has malformed completion date %q: %w", rec.StageCode, rec.CompletedOn, err)
	}
	snap.CompletedOn = completed

	return snap, nil
}

// applyChange returns a copy of the stage row with the computed change set
// applied. The version is left untouched; the adapter bumps it on write.
func applyChange(rec *secondary.ProjectStageRecord, ch stage.Change) *secondary.ProjectStageRecord {
	upd := *rec
	upd.Status = string(ch.Status)
	upd.ActualStart = formatOptionalDate(ch.ActualStart)
	upd.CompletedOn = formatOptionalDate(ch.CompletedOn)
	upd.AutoCompleted = ch.AutoCompleted
	upd.AutoCompletedFrom = ch.AutoCompletedFrom
	upd.RequiresBackfill = ch.RequiresBackfill
	return &upd
}

// appliedLog builds the engine-level Applied audit row for one mutated stage,
// capturing its own from/to status and dates.
func appliedLog(from, to *secondary.ProjectStageRecord, requestID, note, actorID string) *secondary.StageChangeLogRecord {
	return &secondary.StageChangeLogRecord{
		RequestID:       requestID,
		ProjectID:       from.ProjectID,
		StageCode:       from.StageCode,
		Action:          string(stage.ActionApplied),
		FromStatus:      from.Status,
		ToStatus:        to.Status,
		FromActualStart: from.ActualStart,
		ToActualStart:   to.ActualStart,
		FromCompletedOn: from.CompletedOn,
		ToCompletedOn:   to.CompletedOn,
		Note:            note,
		ActorID:         actorID,
	}
}

// stageToPort merges a stage row with its template definition into the port DTO.
func stageToPort(rec *secondary.ProjectStageRecord, def secondary.StageDef) *primary.ProjectStage {
	return &primary.ProjectStage{
		ProjectID:         rec.ProjectID,
		StageCode:         rec.StageCode,
		Name:              def.Name,
		Sequence:          def.Sequence,
		Optional:          def.Optional,
		Status:            rec.Status,
		ActualStart:       rec.ActualStart,
		CompletedOn:       rec.CompletedOn,
		AutoCompleted:     rec.AutoCompleted,
		AutoCompletedFrom: rec.AutoCompletedFrom,
		RequiresBackfill:  rec.RequiresBackfill,
	}
}

// cascadeEntries builds the functional core's cascade input from the catalog
// definitions and the current stage rows.
func cascadeEntries(defs []secondary.StageDef, records []*secondary.ProjectStageRecord) []stage.Entry {
	statusByCode := make(map[string]stage.Status, len(records))
	for _, r := range records {
		statusByCode[r.StageCode] = stage.Status(r.Status)
	}

	entries := make([]stage.Entry, 0, len(defs))
	for _, d := range defs {
		status, ok := statusByCode[d.Code]
		if !ok {
			status = stage.StatusNotStarted
		}
		entries = append(entries, stage.Entry{
			Code:     d.Code,
			Sequence: d.Sequence,
			Optional: d.Optional,
			Status:   status,
		})
	}
	return entries
}
