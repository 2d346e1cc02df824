package primary

import (
	"context"

	"github.com/example/depot/internal/core/resolve"
)

// DependencyService defines the primary port for dependency resolution.
// The resolver only reports what is missing or incompatible; it never
// installs dependencies itself.
type DependencyService interface {
	// CheckDependencies classifies every declared dependency of the
	// candidate package against the target workspace. Catalog lookup
	// failures degrade to a structured result with CanInstall=false, not
	// an error.
	CheckDependencies(ctx context.Context, packageID, workspaceID string) (*DependencyCheckResult, error)

	// CheckToolCompatibility reports tool-name collisions between the
	// candidate and installed packages. Informational only; does not gate
	// installation.
	CheckToolCompatibility(ctx context.Context, packageID, workspaceID string) (*ToolCompatibilityResult, error)
}

// DependencyCheckResult is the outcome of a dependency check.
type DependencyCheckResult struct {
	CanInstall            bool
	MissingDependencies   []resolve.Dependency
	InstalledDependencies []resolve.ResolvedDependency
	Conflicts             []resolve.DependencyConflict
	Suggestions           []string
}

// ToolCompatibilityResult lists tool-name collisions per installed package.
type ToolCompatibilityResult struct {
	Compatible bool
	Collisions []ToolCollision
}

// ToolCollision is one set of shared tool names with an installed package.
type ToolCollision struct {
	PackageID   string
	PackageName string
	Tools       []string
}
