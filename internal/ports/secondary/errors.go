package secondary

import "errors"

// Sentinel errors surfaced by repository adapters. Services and callers match
// them with errors.Is; adapters wrap them with entity-specific messages.
var (
	// ErrNotFound indicates a referenced project, stage, or request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict indicates an optimistic concurrency check failed:
	// a stage row was modified between read and write. Callers retry with
	// fresh data.
	ErrVersionConflict = errors.New("stage row was modified concurrently")

	// ErrAlreadyDecided indicates a change request is no longer pending.
	ErrAlreadyDecided = errors.New("request already decided")
)
