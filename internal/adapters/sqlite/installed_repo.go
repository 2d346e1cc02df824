package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// InstalledPackageRepository implements secondary.InstalledPackageRepository
// with SQLite.
type InstalledPackageRepository struct {
	db *sql.DB
}

// NewInstalledPackageRepository creates a new SQLite installed-package
// repository.
func NewInstalledPackageRepository(db *sql.DB) *InstalledPackageRepository {
	return &InstalledPackageRepository{db: db}
}

const installedColumns = "id, workspace_id, package_id, installed_version, auto_update, local_definition_id, created_at, updated_at"

// Find retrieves the installed package for a (workspace, package) pair.
// Returns (nil, nil) when the package is not installed.
func (r *InstalledPackageRepository) Find(ctx context.Context, workspaceID, packageID string) (*secondary.InstalledPackageRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+installedColumns+" FROM installed_packages WHERE workspace_id = ? AND package_id = ?",
		workspaceID, packageID,
	)

	record, err := scanInstalled(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find installed package: %w", err)
	}
	return record, nil
}

// FindAllInWorkspace retrieves every installed package in a workspace.
func (r *InstalledPackageRepository) FindAllInWorkspace(ctx context.Context, workspaceID string) ([]*secondary.InstalledPackageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+installedColumns+" FROM installed_packages WHERE workspace_id = ? ORDER BY created_at",
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed packages: %w", err)
	}
	defer rows.Close()

	var installed []*secondary.InstalledPackageRecord
	for rows.Next() {
		record, err := scanInstalled(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installed package: %w", err)
		}
		installed = append(installed, record)
	}

	return installed, nil
}

// Delete removes an installed package row.
func (r *InstalledPackageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM installed_packages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete installed package: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("installed package %s: %w", id, primary.ErrNotFound)
	}
	return nil
}

// WorkspaceExists checks if a workspace exists.
func (r *InstalledPackageRepository) WorkspaceExists(ctx context.Context, workspaceID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workspaces WHERE id = ?", workspaceID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check workspace existence: %w", err)
	}
	return count > 0, nil
}

func scanInstalled(row interface{ Scan(...any) error }) (*secondary.InstalledPackageRecord, error) {
	var (
		autoUpdate int
		createdAt  time.Time
		updatedAt  time.Time
	)

	record := &secondary.InstalledPackageRecord{}
	err := row.Scan(&record.ID, &record.WorkspaceID, &record.PackageID, &record.InstalledVersion,
		&autoUpdate, &record.LocalDefinitionID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.AutoUpdate = autoUpdate != 0
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure InstalledPackageRepository implements the interface
var _ secondary.InstalledPackageRepository = (*InstalledPackageRepository)(nil)
