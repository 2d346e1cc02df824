package primary

import (
	"context"

	"github.com/example/depot/internal/core/conflict"
)

// ConflictService defines the primary port for conflict detection.
type ConflictService interface {
	// CheckConflicts scans the workspace for collisions with the candidate
	// package: prior installation, tool/permission overlap, trigger
	// collisions, and version recency. targetVersion may be empty, in
	// which case the package's latest version is assumed. Catalog lookup
	// failures degrade to a single critical conflict, not an error.
	CheckConflicts(ctx context.Context, packageID, workspaceID, targetVersion string) (*ConflictCheckResult, error)
}

// ConflictCheckResult is the outcome of a conflict scan.
type ConflictCheckResult struct {
	HasConflicts    bool
	Conflicts       []conflict.Conflict
	CanForceInstall bool
	Warnings        []string
}
