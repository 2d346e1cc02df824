package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a couple of
// workspaces and a small published catalog with realistic capability
// declarations, including one package pair that conflicts on a trigger.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)

	// Workspaces
	workspaces := []struct{ id, name string }{
		{"WS-001", "acme-support"},
		{"WS-002", "acme-sales"},
	}
	for _, w := range workspaces {
		if _, err := database.Exec(
			"INSERT INTO workspaces (id, name, status, created_at) VALUES (?, ?, 'active', ?)",
			w.id, w.name, now,
		); err != nil {
			return fmt.Errorf("seed workspaces: %w", err)
		}
	}

	// Packages with their master definitions
	packages := []struct {
		id, name, version, defID string
		tools, permissions       string
		triggers, dependencies   string
		description              string
	}{
		{
			id: "PKG-001", name: "summarizer", version: "1.4.2", defID: "DEF-seed-001",
			tools:       `["web_search","doc_read"]`,
			permissions: `["read_messages"]`,
			triggers:    `[{"type":"event","event":"conversation.closed"}]`,
			dependencies: `[]`,
			description: "Summarizes closed conversations",
		},
		{
			id: "PKG-002", name: "translator", version: "2.1.0", defID: "DEF-seed-002",
			tools:       `["doc_read"]`,
			permissions: `["read_messages","send_messages"]`,
			triggers:    `[{"type":"event","event":"message.created"}]`,
			dependencies: `[]`,
			description: "Translates incoming messages",
		},
		{
			id: "PKG-003", name: "auto-responder", version: "0.9.1", defID: "DEF-seed-003",
			tools:       `["canned_replies"]`,
			permissions: `["send_messages"]`,
			triggers:    `[{"type":"event","event":"message.created"}]`,
			dependencies: `[{"name":"translator","versionRange":"^2.0.0","required":true,"description":"Needed for non-English replies"}]`,
			description: "Replies to common questions automatically",
		},
	}
	for _, p := range packages {
		if _, err := database.Exec(
			"INSERT INTO packages (id, name, latest_version, status, install_count, definition_id, created_at) VALUES (?, ?, ?, 'published', 0, ?, ?)",
			p.id, p.name, p.version, p.defID, now,
		); err != nil {
			return fmt.Errorf("seed packages: %w", err)
		}
		if _, err := database.Exec(
			"INSERT INTO package_definitions (id, package_id, workspace_id, name, version, description, tools, permissions, triggers, dependencies, created_at) VALUES (?, ?, NULL, ?, ?, ?, ?, ?, ?, ?, ?)",
			p.defID, p.id, p.name, p.version, p.description, p.tools, p.permissions, p.triggers, p.dependencies, now,
		); err != nil {
			return fmt.Errorf("seed definitions: %w", err)
		}
	}

	return nil
}
