package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Role constants
const (
	RoleSubmitter = "SUBMITTER" // May submit change requests and record facts
	RoleApprover  = "APPROVER"  // May approve or reject pending requests
	RoleAdmin     = "ADMIN"     // May apply direct transitions without a request
)

// Config represents the flat stagetrack configuration
type Config struct {
	Version string `json:"version"`
	ActorID string `json:"actor_id"`          // Recorded on every request, decision, and log row
	Role    string `json:"role"`              // "SUBMITTER", "APPROVER" or "ADMIN"
	Project string `json:"project,omitempty"` // PROJ-XXX default project for commands
}

// LoadConfig reads .stagetrack/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".stagetrack", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	appDir := filepath.Join(dir, ".stagetrack")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create .stagetrack dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(appDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CanApprove returns true if the role may decide change requests.
func CanApprove(role string) bool {
	return role == RoleApprover || role == RoleAdmin
}

// CanApplyDirect returns true if the role may bypass the approval workflow.
func CanApplyDirect(role string) bool {
	return role == RoleAdmin
}
