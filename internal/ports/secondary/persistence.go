package secondary

import (
	"context"

	"github.com/example/depot/internal/models"
)

// InstalledPackageRepository defines the secondary port for
// installed-package persistence. At most one non-deleted row exists per
// (workspace, package) pair; the storage layer enforces this with a
// uniqueness constraint so concurrent installers race safely.
type InstalledPackageRepository interface {
	// Find retrieves the installed package for a (workspace, package)
	// pair. Returns (nil, nil) when the package is not installed.
	Find(ctx context.Context, workspaceID, packageID string) (*InstalledPackageRecord, error)

	// FindAllInWorkspace retrieves every installed package in a workspace.
	FindAllInWorkspace(ctx context.Context, workspaceID string) ([]*InstalledPackageRecord, error)

	// Delete removes an installed package row.
	Delete(ctx context.Context, id string) error

	// WorkspaceExists checks if a workspace exists (for validation).
	WorkspaceExists(ctx context.Context, workspaceID string) (bool, error)
}

// InstalledPackageRecord represents one package materialized into one
// workspace.
type InstalledPackageRecord struct {
	ID                string
	WorkspaceID       string
	PackageID         string
	InstalledVersion  string
	AutoUpdate        bool
	LocalDefinitionID string
	CreatedAt         string
	UpdatedAt         string
}

// DefinitionStore defines the secondary port for workspace-local definition
// copies.
type DefinitionStore interface {
	// Get retrieves a definition copy by its ID.
	Get(ctx context.Context, definitionID string) (*models.Definition, error)

	// Delete removes a definition copy. Deleting an absent copy is not an
	// error (rollback is idempotent-safe).
	Delete(ctx context.Context, definitionID string) error
}

// InstallTx exposes exactly the three mutations of an installation. All
// three happen inside one transaction; no partial visibility is permitted
// outside it.
type InstallTx interface {
	// CopyDefinition copies a catalog definition into the workspace and
	// returns the ID of the local copy.
	CopyDefinition(ctx context.Context, def *models.Definition, workspaceID string) (string, error)

	// CreateInstalledPackage inserts the installed-package row. Violating
	// the (workspace, package) uniqueness constraint fails the
	// transaction.
	CreateInstalledPackage(ctx context.Context, rec *InstalledPackageRecord) error

	// IncrementInstallCount increments the source package's install
	// counter.
	IncrementInstallCount(ctx context.Context, packageID string) error
}

// InstallTransactor runs the mutating installation steps atomically:
// fn either commits as a whole or leaves no trace.
type InstallTransactor interface {
	WithTransaction(ctx context.Context, fn func(tx InstallTx) error) error
}

// AttemptRepository defines the secondary port for installation-attempt
// persistence. Attempts are the auditable log of install invocations; they
// are never deleted.
type AttemptRepository interface {
	// Create persists a new attempt together with its pending step records.
	Create(ctx context.Context, attempt *AttemptRecord) error

	// GetByID retrieves an attempt with its ordered step list.
	GetByID(ctx context.Context, id string) (*AttemptRecord, error)

	// GetStatus retrieves just the status of an attempt. Used as the cheap
	// cooperative cancellation check between steps.
	GetStatus(ctx context.Context, id string) (string, error)

	// List retrieves attempts matching the given filters, newest first.
	List(ctx context.Context, filters AttemptFilters) ([]*AttemptRecord, error)

	// UpdateProgress updates status, current step, and progress percentage.
	UpdateProgress(ctx context.Context, id, status, currentStep string, progress int) error

	// MarkStep updates one step record. in_progress stamps started_at;
	// completed and failed stamp completed_at; stepErr is recorded on
	// failure.
	MarkStep(ctx context.Context, attemptID, step, status, stepErr string) error

	// SetInstalledPackage records the installed-package row an attempt
	// produced.
	SetInstalledPackage(ctx context.Context, id, installedPackageID string) error

	// MarkCompleted transitions an attempt to COMPLETED and stamps
	// completed_at.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed transitions an attempt to FAILED and records the error
	// message.
	MarkFailed(ctx context.Context, id, errorMessage string) error

	// MarkRolledBack transitions an attempt to ROLLED_BACK, stamps
	// completed_at, and records a note in the error message.
	MarkRolledBack(ctx context.Context, id, note string) error

	// GetNextID returns the next available attempt ID.
	GetNextID(ctx context.Context) (string, error)
}

// AttemptRecord represents an installation attempt as stored in persistence.
type AttemptRecord struct {
	ID                 string
	WorkspaceID        string
	PackageID          string
	TargetVersion      string
	Status             string
	CurrentStep        string // Empty string means null
	Progress           int    // 0-100
	InstalledPackageID string // Empty string means null
	ErrorMessage       string // Empty string means null
	StartedAt          string
	CompletedAt        string // Empty string means null
	CreatedAt          string
	UpdatedAt          string
	Steps              []StepRecord
}

// StepRecord represents one step of an installation attempt.
type StepRecord struct {
	Step        string
	Position    int
	Status      string // pending, in_progress, completed, failed
	StartedAt   string // Empty string means null
	CompletedAt string // Empty string means null
	Error       string // Empty string means null
}

// AttemptFilters contains filter options for querying attempts.
type AttemptFilters struct {
	WorkspaceID string
	PackageID   string
	Status      string
	Limit       int
}
