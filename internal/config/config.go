package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace role constants. Admins may install, cancel, rollback, and
// uninstall; members are read-only.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Config represents the flat depot configuration
type Config struct {
	Version          string `json:"version"`
	ActorID          string `json:"actor_id"`                    // USR-XXX
	Role             string `json:"role"`                        // "ADMIN" or "MEMBER"
	DefaultWorkspace string `json:"default_workspace,omitempty"` // WS-XXX
}

// LoadConfig reads .depot/config.json from the specified directory.
// Resolution order: dir only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".depot", "config.json")
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
	depotDir := filepath.Join(dir, ".depot")
	if err := os.MkdirAll(depotDir, 0755); err != nil {
		return fmt.Errorf("failed to create .depot dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(depotDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// IsAdminRole returns true if the role grants mutating operations.
func IsAdminRole(role string) bool {
	return role == RoleAdmin
}
