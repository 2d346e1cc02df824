// Package cli provides CLI commands for the depot application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"

	"github.com/example/depot/internal/config"
	"github.com/example/depot/internal/ctxutil"
	"github.com/example/depot/internal/wire"
)

// globalConfig stores the loaded configuration for the current CLI
// invocation. Set once at startup by LoadActorConfig(). Nil when no
// config exists yet (before 'depot init').
var globalConfig *config.Config

// LoadActorConfig loads ~/.depot/config.json and stores it globally.
// Should be called once at CLI startup in PersistentPreRun. Missing
// config is not an error here; commands that need an identity fail later
// with a pointer to 'depot init'.
func LoadActorConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	cfg, err := config.LoadConfig(home)
	if err != nil {
		return
	}
	globalConfig = cfg
}

// GetActorID returns the configured actor ID, or empty string if no
// configuration was loaded.
func GetActorID() string {
	if globalConfig == nil {
		return ""
	}
	return globalConfig.ActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if actorID := GetActorID(); actorID != "" {
		return ctxutil.WithActorID(ctx, actorID)
	}
	return ctx
}

// defaultWorkspace returns the configured default workspace, or empty string.
func defaultWorkspace() string {
	if globalConfig == nil {
		return ""
	}
	return globalConfig.DefaultWorkspace
}

// resolveWorkspace picks the --workspace flag value or falls back to the
// configured default.
func resolveWorkspace(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if ws := defaultWorkspace(); ws != "" {
		return ws, nil
	}
	return "", fmt.Errorf("no workspace specified - use --workspace or set default_workspace in ~/.depot/config.json")
}

// requireAdmin asserts the current actor holds the ADMIN role in the
// workspace. Mutating commands call this before touching the services.
func requireAdmin(workspaceID string) error {
	return wire.Authorizer().AssertRole(NewContext(), workspaceID, GetActorID(), []string{config.RoleAdmin})
}
