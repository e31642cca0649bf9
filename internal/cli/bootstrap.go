// Package cli provides CLI commands for the stagetrack application.
package cli

import (
	gocontext "context"
	"os"

	"github.com/example/stagetrack/internal/config"
	"github.com/example/stagetrack/internal/ctxutil"
)

// globalActorID stores the resolved actor ID for the current CLI invocation.
// Set once at startup by LoadActor().
var globalActorID string

// globalRole stores the resolved role for the current CLI invocation.
var globalRole string

// LoadActor resolves the actor identity from ~/.stagetrack/config.json and
// stores it globally. Falls back to $USER when no config exists.
// Should be called once at CLI startup in PersistentPreRun.
func LoadActor() {
	home, err := os.UserHomeDir()
	if err == nil {
		if cfg, err := config.LoadConfig(home); err == nil && cfg.ActorID != "" {
			globalActorID = cfg.ActorID
			globalRole = cfg.Role
			return
		}
	}
	globalActorID = os.Getenv("USER")
	globalRole = config.RoleSubmitter
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if LoadActor() was not called.
func GetActorID() string {
	return globalActorID
}

// GetRole returns the stored role from CLI startup.
func GetRole() string {
	return globalRole
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
