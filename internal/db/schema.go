package db

// SchemaSQL is the complete schema for fresh depot installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All repository
// tests load it via GetSchemaSQL() so test schemas can never drift from
// production: if repository code references a column that doesn't exist
// here, tests fail immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Workspaces (install targets)
CREATE TABLE IF NOT EXISTS workspaces (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL CHECK(status IN ('active', 'archived')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Packages (the published catalog)
CREATE TABLE IF NOT EXISTS packages (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	latest_version TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('draft', 'published', 'archived')) DEFAULT 'draft',
	install_count INTEGER NOT NULL DEFAULT 0,
	definition_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Package definitions. workspace_id NULL = catalog master copy;
-- non-NULL = workspace-local copy created by an install.
-- Capability columns hold JSON arrays, decoded once at the adapter boundary.
CREATE TABLE IF NOT EXISTS package_definitions (
	id TEXT PRIMARY KEY,
	package_id TEXT NOT NULL,
	workspace_id TEXT,
	name TEXT NOT NULL,
	version TEXT NOT NULL,
	description TEXT,
	tools TEXT NOT NULL DEFAULT '[]',
	permissions TEXT NOT NULL DEFAULT '[]',
	triggers TEXT NOT NULL DEFAULT '[]',
	dependencies TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (package_id) REFERENCES packages(id),
	FOREIGN KEY (workspace_id) REFERENCES workspaces(id)
);

-- Installed packages: one row per (workspace, package). The UNIQUE
-- constraint is what closes the concurrent check-then-act install race:
-- the losing transaction fails at commit time.
CREATE TABLE IF NOT EXISTS installed_packages (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	package_id TEXT NOT NULL,
	installed_version TEXT NOT NULL,
	auto_update INTEGER NOT NULL DEFAULT 0,
	local_definition_id TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (workspace_id) REFERENCES workspaces(id),
	FOREIGN KEY (package_id) REFERENCES packages(id),
	FOREIGN KEY (local_definition_id) REFERENCES package_definitions(id),
	UNIQUE(workspace_id, package_id)
);

-- Installation attempts (the auditable install log). Terminal once status
-- reaches COMPLETED, FAILED, or ROLLED_BACK. Never deleted.
CREATE TABLE IF NOT EXISTS installation_attempts (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	package_id TEXT NOT NULL,
	target_version TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'VALIDATING', 'RESOLVING_DEPENDENCIES', 'DOWNLOADING', 'CONFIGURING', 'INSTALLING', 'COMPLETED', 'FAILED', 'ROLLED_BACK')) DEFAULT 'PENDING',
	current_step TEXT,
	progress INTEGER NOT NULL DEFAULT 0,
	installed_package_id TEXT,
	error_message TEXT,
	started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (workspace_id) REFERENCES workspaces(id),
	FOREIGN KEY (package_id) REFERENCES packages(id)
);

-- Step records, one per attempt per step, fixed sequence.
CREATE TABLE IF NOT EXISTS installation_steps (
	attempt_id TEXT NOT NULL,
	step TEXT NOT NULL,
	position INTEGER NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'failed')) DEFAULT 'pending',
	started_at DATETIME,
	completed_at DATETIME,
	error TEXT,
	PRIMARY KEY (attempt_id, step),
	FOREIGN KEY (attempt_id) REFERENCES installation_attempts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_definitions_workspace ON package_definitions(workspace_id);
CREATE INDEX IF NOT EXISTS idx_installed_workspace ON installed_packages(workspace_id);
CREATE INDEX IF NOT EXISTS idx_attempts_workspace ON installation_attempts(workspace_id);
CREATE INDEX IF NOT EXISTS idx_attempts_status ON installation_attempts(status);
`

// InitSchema creates the database schema
func InitSchema() error {
	database, err := GetDB()
	if err != nil {
		return err
	}

	// Fresh installs get the modern schema directly; existing databases run
	// any pending migrations.
	var tableCount int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		if _, err := database.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = database.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		// Mark all migrations as applied for fresh installs
		for _, m := range migrations {
			if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
