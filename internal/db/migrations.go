package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_unique_workspace_package_constraint",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_progress_and_step_columns_to_attempts",
		Up:      migrationV2,
	},
}

// RunMigrations applies any pending migrations inside transactions.
func RunMigrations() error {
	database, err := GetDB()
	if err != nil {
		return err
	}

	// Create schema_version table if it doesn't exist
	_, err = database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(database); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

// migrationV1 adds the (workspace_id, package_id) uniqueness constraint that
// closes the concurrent-install race. Early databases relied on the
// application-level already-installed check alone.
func migrationV1(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_installed_workspace_package
		ON installed_packages(workspace_id, package_id)
	`)
	if err != nil {
		return fmt.Errorf("failed to create uniqueness index: %w", err)
	}
	return nil
}

// migrationV2 adds the progress and current_step columns to attempts.
// Earlier versions only recorded the coarse status.
func migrationV2(database *sql.DB) error {
	for _, stmt := range []string{
		"ALTER TABLE installation_attempts ADD COLUMN current_step TEXT",
		"ALTER TABLE installation_attempts ADD COLUMN progress INTEGER NOT NULL DEFAULT 0",
	} {
		if _, err := database.Exec(stmt); err != nil {
			// Column may already exist on databases created from SchemaSQL.
			if !isDuplicateColumnErr(err) {
				return fmt.Errorf("failed to alter installation_attempts: %w", err)
			}
		}
	}
	return nil
}

func isDuplicateColumnErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
