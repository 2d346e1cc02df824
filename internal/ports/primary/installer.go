package primary

import (
	"context"
	"fmt"
)

// InstallerService defines the primary port for installation orchestration:
// the step-based install state machine with progress, cancellation, and
// rollback.
type InstallerService interface {
	// Install runs the full installation sequence for a package into a
	// workspace. It fails fast on pre-check conflicts unless skipped or
	// forced; step failures are recorded on the attempt and returned.
	Install(ctx context.Context, req InstallRequest) (*InstallResponse, error)

	// Cancel cancels a non-terminal attempt, transitioning it to
	// ROLLED_BACK. Cancelling a terminal attempt is an ErrInvalidState.
	Cancel(ctx context.Context, installationID string) error

	// Rollback rolls back a FAILED (or already ROLLED_BACK) attempt,
	// deleting any installed package and local definition copy it
	// produced. Safe to call repeatedly.
	Rollback(ctx context.Context, installationID string) error

	// GetStatus returns a read-only projection of an attempt, including
	// the full step list.
	GetStatus(ctx context.Context, installationID string) (*Installation, error)

	// ListAttempts lists recent attempts for a workspace, newest first.
	ListAttempts(ctx context.Context, workspaceID string) ([]*Installation, error)

	// Uninstall removes an installed package and its workspace-local
	// definition copy.
	Uninstall(ctx context.Context, workspaceID, packageID string) error
}

// InstallRequest contains parameters for an installation.
type InstallRequest struct {
	PackageID           string
	WorkspaceID         string
	Version             string // empty = package's latest version
	AutoUpdate          bool
	SkipDependencyCheck bool
	ForceInstall        bool
}

// InstallResponse contains the result of a successful installation.
type InstallResponse struct {
	InstallationID   string
	InstalledPackage *InstalledPackage
}

// InstalledPackage represents an installed package at the port boundary.
type InstalledPackage struct {
	ID                string
	WorkspaceID       string
	PackageID         string
	InstalledVersion  string
	AutoUpdate        bool
	LocalDefinitionID string
	CreatedAt         string
}

// Installation is the read-only projection of an installation attempt.
type Installation struct {
	ID                 string
	WorkspaceID        string
	PackageID          string
	TargetVersion      string
	Status             string
	CurrentStep        string
	Progress           int
	InstalledPackageID string
	ErrorMessage       string
	StartedAt          string
	CompletedAt        string
	Steps              []InstallationStep
}

// InstallationStep is one step of an installation projection.
type InstallationStep struct {
	Step        string
	Status      string
	StartedAt   string
	CompletedAt string
	Error       string
}

// PreInstallCheck combines the dependency and conflict results that gated a
// rejected installation.
type PreInstallCheck struct {
	Dependencies *DependencyCheckResult
	Conflicts    *ConflictCheckResult
}

// PreCheckError is returned when the combined pre-install check blocks an
// installation and force was not requested. It carries the computed results
// so callers can show what blocked the install, and unwraps to ErrConflict.
type PreCheckError struct {
	Check PreInstallCheck
}

func (e *PreCheckError) Error() string {
	missing := 0
	if e.Check.Dependencies != nil {
		missing = len(e.Check.Dependencies.MissingDependencies)
	}
	conflicts := 0
	if e.Check.Conflicts != nil {
		conflicts = len(e.Check.Conflicts.Conflicts)
	}
	return fmt.Sprintf("installation blocked by pre-install check: %d missing dependencies, %d conflicts", missing, conflicts)
}

// Unwrap lets errors.Is(err, ErrConflict) match pre-check rejections.
func (e *PreCheckError) Unwrap() error {
	return ErrConflict
}
