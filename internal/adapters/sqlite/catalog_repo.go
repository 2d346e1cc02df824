package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// CatalogRepository implements secondary.PackageCatalog with SQLite.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const packageColumns = "id, name, latest_version, status, install_count, definition_id, created_at, updated_at"

// GetPackage retrieves a package by its ID.
func (r *CatalogRepository) GetPackage(ctx context.Context, id string) (*secondary.PackageRecord, error) {
	return r.getPackage(ctx, "id = ?", id)
}

// GetPackageByName retrieves a package by its unique name.
func (r *CatalogRepository) GetPackageByName(ctx context.Context, name string) (*secondary.PackageRecord, error) {
	return r.getPackage(ctx, "name = ?", name)
}

func (r *CatalogRepository) getPackage(ctx context.Context, where string, arg any) (*secondary.PackageRecord, error) {
	var (
		defID     sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.PackageRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE "+where, arg,
	).Scan(&record.ID, &record.Name, &record.LatestVersion, &record.Status, &record.InstallCount, &defID, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("package %v: %w", arg, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	record.DefinitionID = defID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// GetDefinition retrieves a definition by its ID with capability lists
// decoded.
func (r *CatalogRepository) GetDefinition(ctx context.Context, definitionID string) (*models.Definition, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+definitionColumns+" FROM package_definitions WHERE id = ?", definitionID)

	def, err := scanDefinition(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("definition %s: %w", definitionID, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get definition: %w", err)
	}
	return def, nil
}

// CreatePackage persists a new package.
func (r *CatalogRepository) CreatePackage(ctx context.Context, pkg *secondary.PackageRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO packages (id, name, latest_version, status, install_count, definition_id) VALUES (?, ?, ?, ?, 0, ?)",
		pkg.ID, pkg.Name, pkg.LatestVersion, pkg.Status, nullable(pkg.DefinitionID),
	)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

// CreateDefinition persists a new definition.
func (r *CatalogRepository) CreateDefinition(ctx context.Context, def *models.Definition) error {
	tools, permissions, triggers, deps, err := encodeDefinition(def)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO package_definitions (id, package_id, workspace_id, name, version, description, tools, permissions, triggers, dependencies) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		def.ID, def.PackageID, nullable(def.WorkspaceID), def.Name, def.Version, nullable(def.Description),
		tools, permissions, triggers, deps,
	)
	if err != nil {
		return fmt.Errorf("failed to create definition: %w", err)
	}
	return nil
}

// UpdateLatestVersion updates a package's latest version and master
// definition pointer.
func (r *CatalogRepository) UpdateLatestVersion(ctx context.Context, packageID, version, definitionID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE packages SET latest_version = ?, definition_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		version, definitionID, packageID,
	)
	if err != nil {
		return fmt.Errorf("failed to update latest version: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("package %s: %w", packageID, primary.ErrNotFound)
	}
	return nil
}

// List retrieves packages matching the given filters.
func (r *CatalogRepository) List(ctx context.Context, filters secondary.PackageFilters) ([]*secondary.PackageRecord, error) {
	query := "SELECT " + packageColumns + " FROM packages WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY name"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var packages []*secondary.PackageRecord
	for rows.Next() {
		var (
			defID     sql.NullString
			createdAt time.Time
			updatedAt time.Time
		)

		record := &secondary.PackageRecord{}
		err := rows.Scan(&record.ID, &record.Name, &record.LatestVersion, &record.Status, &record.InstallCount, &defID, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}

		record.DefinitionID = defID.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		record.UpdatedAt = updatedAt.Format(time.RFC3339)

		packages = append(packages, record)
	}

	return packages, nil
}

// GetNextID returns the next available package ID.
func (r *CatalogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM packages",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next package ID: %w", err)
	}

	return fmt.Sprintf("PKG-%03d", maxID+1), nil
}

// nullable converts an empty string to a SQL NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure CatalogRepository implements the interface
var _ secondary.PackageCatalog = (*CatalogRepository)(nil)
