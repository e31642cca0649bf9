package config

import (
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{
		Version: "1",
		ActorID: "alice",
		Role:    RoleApprover,
		Project: "PROJ-001",
	}
	if err := SaveConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.ActorID != "alice" {
		t.Errorf("actor = %s, want alice", loaded.ActorID)
	}
	if loaded.Role != RoleApprover {
		t.Errorf("role = %s, want %s", loaded.Role, RoleApprover)
	}
	if loaded.Project != "PROJ-001" {
		t.Errorf("project = %s, want PROJ-001", loaded.Project)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role       string
		canApprove bool
		canDirect  bool
	}{
		{RoleSubmitter, false, false},
		{RoleApprover, true, false},
		{RoleAdmin, true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := CanApprove(tt.role); got != tt.canApprove {
			t.Errorf("CanApprove(%q) = %v, want %v", tt.role, got, tt.canApprove)
		}
		if got := CanApplyDirect(tt.role); got != tt.canDirect {
			t.Errorf("CanApplyDirect(%q) = %v, want %v", tt.role, got, tt.canDirect)
		}
	}
}
