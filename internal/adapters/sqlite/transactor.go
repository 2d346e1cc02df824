package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// InstallTransactor implements secondary.InstallTransactor with SQLite
// transactions. The three installation mutations commit as one unit or not
// at all.
type InstallTransactor struct {
	db *sql.DB
}

// NewInstallTransactor creates a new SQLite install transactor.
func NewInstallTransactor(db *sql.DB) *InstallTransactor {
	return &InstallTransactor{db: db}
}

// WithTransaction runs fn inside a transaction. Any error from fn rolls the
// whole transaction back; a uniqueness violation on installed_packages is
// reported as primary.ErrConflict so callers can tell "lost the race" apart
// from infrastructure failure.
func (t *InstallTransactor) WithTransaction(ctx context.Context, fn func(tx secondary.InstallTx) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&installTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", primary.ErrTransactionFailure, err)
	}
	return nil
}

type installTx struct {
	tx *sql.Tx
}

// CopyDefinition copies a catalog definition into the workspace and returns
// the ID of the local copy.
func (t *installTx) CopyDefinition(ctx context.Context, def *models.Definition, workspaceID string) (string, error) {
	tools, permissions, triggers, deps, err := encodeDefinition(def)
	if err != nil {
		return "", err
	}

	localID := "DEF-" + uuid.NewString()
	_, err = t.tx.ExecContext(ctx,
		"INSERT INTO package_definitions (id, package_id, workspace_id, name, version, description, tools, permissions, triggers, dependencies) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		localID, def.PackageID, workspaceID, def.Name, def.Version, nullable(def.Description),
		tools, permissions, triggers, deps,
	)
	if err != nil {
		return "", fmt.Errorf("failed to copy definition: %w", err)
	}
	return localID, nil
}

// CreateInstalledPackage inserts the installed-package row. Losing the
// (workspace, package) uniqueness race surfaces as primary.ErrConflict.
func (t *installTx) CreateInstalledPackage(ctx context.Context, rec *secondary.InstalledPackageRecord) error {
	autoUpdate := 0
	if rec.AutoUpdate {
		autoUpdate = 1
	}

	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO installed_packages (id, workspace_id, package_id, installed_version, auto_update, local_definition_id) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.WorkspaceID, rec.PackageID, rec.InstalledVersion, autoUpdate, rec.LocalDefinitionID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("package %s already installed in workspace %s: %w",
				rec.PackageID, rec.WorkspaceID, primary.ErrConflict)
		}
		return fmt.Errorf("failed to create installed package: %w", err)
	}
	return nil
}

// IncrementInstallCount increments the source package's install counter.
func (t *installTx) IncrementInstallCount(ctx context.Context, packageID string) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE packages SET install_count = install_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		packageID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment install count: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("package %s: %w", packageID, primary.ErrNotFound)
	}
	return nil
}

// Ensure the transactor implements the interfaces
var (
	_ secondary.InstallTransactor = (*InstallTransactor)(nil)
	_ secondary.InstallTx         = (*installTx)(nil)
)
