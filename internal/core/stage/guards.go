// Package stage contains the pure business logic for stage lifecycle
// operations. This file contains guard functions for transition and
// decision preconditions.
package stage

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CompletionContext provides the context needed to evaluate whether a stage
// may be completed directly. Fact lookups are pre-fetched by the caller.
type CompletionContext struct {
	StageCode    string
	RequiresFact bool
	HasFact      bool
}

// CanCompleteDirectly evaluates whether a stage can be completed by a direct
// transition. Rule: a stage whose code requires a supporting fact cannot be
// completed until that fact is recorded. This hard check applies only to the
// directly transitioned stage - cascaded predecessors are flagged for
// backfill instead.
func CanCompleteDirectly(ctx CompletionContext) GuardResult {
	if ctx.RequiresFact && !ctx.HasFact {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("missing supporting data for stage %s", ctx.StageCode),
		}
	}
	return GuardResult{Allowed: true}
}

// DecideContext provides the context for change request decision guards.
type DecideContext struct {
	RequestID      string
	DecisionStatus DecisionStatus
}

// CanDecide evaluates whether a change request can still be decided.
// Rule: pending -> approved|rejected is terminal; a decided request is never
// decided again.
func CanDecide(ctx DecideContext) GuardResult {
	if ctx.DecisionStatus.Terminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("request %s is already decided (status: %s)", ctx.RequestID, ctx.DecisionStatus),
		}
	}
	return GuardResult{Allowed: true}
}

// NeedsBackfill reports whether a cascade-completed stage must be flagged for
// later data entry: its code requires a fact and none is recorded. Stages that
// require no fact at all are never flagged.
func NeedsBackfill(requiresFact, hasFact bool) bool {
	return requiresFact && !hasFact
}
