package stage

import "sort"

// Entry describes one stage of a project's template together with its current
// status. Entries are pre-fetched by the caller - no I/O in the planner.
type Entry struct {
	Code     string
	Sequence int
	Optional bool
	Status   Status
}

// CascadeStep is one planned mutation produced by the completion cascade.
type CascadeStep struct {
	Code          string
	Sequence      int
	Status        Status // StatusCompleted or StatusSkipped
	AutoCompleted bool
	TriggerCode   string
}

// PlanCascade returns the predecessor mutations implied by directly completing
// the stage with triggerSeq. Every stage with a strictly lower sequence that is
// not already completed or skipped gets settled: optional stages are skipped,
// required stages are completed and marked auto-completed from the trigger.
//
// Steps are returned closest predecessor first (descending sequence), matching
// the order in which they are applied and logged. Entries may arrive in any
// order. The predecessor relation is a total order by sequence, so a simple
// sorted scan is all that is needed - no graph traversal.
func PlanCascade(entries []Entry, triggerSeq int, triggerCode string) []CascadeStep {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Sequence > sorted[j].Sequence
	})

	var steps []CascadeStep
	for _, e := range sorted {
		if e.Sequence >= triggerSeq {
			continue
		}
		if e.Status.Settled() {
			continue
		}

		step := CascadeStep{Code: e.Code, Sequence: e.Sequence}
		if e.Optional {
			step.Status = StatusSkipped
		} else {
			step.Status = StatusCompleted
			step.AutoCompleted = true
			step.TriggerCode = triggerCode
		}
		steps = append(steps, step)
	}

	return steps
}

// IncompletePredecessors returns the codes of stages with a sequence lower
// than targetSeq that are neither completed nor skipped, in sequence order.
// Used for the advisory warning attached to approvals.
func IncompletePredecessors(entries []Entry, targetSeq int) []string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Sequence < sorted[j].Sequence
	})

	var codes []string
	for _, e := range sorted {
		if e.Sequence >= targetSeq {
			continue
		}
		if !e.Status.Settled() {
			codes = append(codes, e.Code)
		}
	}
	return codes
}
