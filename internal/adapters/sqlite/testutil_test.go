// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/depot/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
// Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedWorkspace inserts a test workspace and returns its ID.
func seedWorkspace(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "WS-001"
	}
	if name == "" {
		name = "test-workspace"
	}
	_, err := db.Exec("INSERT INTO workspaces (id, name, status) VALUES (?, ?, 'active')", id, name)
	if err != nil {
		t.Fatalf("failed to seed workspace: %v", err)
	}
	return id
}

// seedPackage inserts a test package and returns its ID.
func seedPackage(t *testing.T, db *sql.DB, id, name, version string) string {
	t.Helper()
	if id == "" {
		id = "PKG-001"
	}
	if name == "" {
		name = "test-agent"
	}
	if version == "" {
		version = "1.0.0"
	}
	_, err := db.Exec("INSERT INTO packages (id, name, latest_version, status) VALUES (?, ?, ?, 'published')", id, name, version)
	if err != nil {
		t.Fatalf("failed to seed package: %v", err)
	}
	return id
}

// seedDefinition inserts a catalog master definition and returns its ID.
func seedDefinition(t *testing.T, db *sql.DB, id, packageID, name, version string) string {
	t.Helper()
	if id == "" {
		id = "DEF-001"
	}
	if packageID == "" {
		packageID = "PKG-001"
	}
	if name == "" {
		name = "test-agent"
	}
	if version == "" {
		version = "1.0.0"
	}
	_, err := db.Exec(
		"INSERT INTO package_definitions (id, package_id, name, version) VALUES (?, ?, ?, ?)",
		id, packageID, name, version,
	)
	if err != nil {
		t.Fatalf("failed to seed definition: %v", err)
	}
	return id
}

// seedInstalled inserts an installed-package row and returns its ID.
func seedInstalled(t *testing.T, db *sql.DB, id, workspaceID, packageID, version, localDefID string) string {
	t.Helper()
	if id == "" {
		id = "IP-001"
	}
	if workspaceID == "" {
		workspaceID = "WS-001"
	}
	if packageID == "" {
		packageID = "PKG-001"
	}
	if version == "" {
		version = "1.0.0"
	}
	if localDefID == "" {
		localDefID = "DEF-001"
	}
	_, err := db.Exec(
		"INSERT INTO installed_packages (id, workspace_id, package_id, installed_version, local_definition_id) VALUES (?, ?, ?, ?, ?)",
		id, workspaceID, packageID, version, localDefID,
	)
	if err != nil {
		t.Fatalf("failed to seed installed package: %v", err)
	}
	return id
}
