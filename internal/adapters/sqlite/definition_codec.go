// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/depot/internal/models"
)

// definitionColumns is the select list shared by every definition query.
const definitionColumns = "id, package_id, workspace_id, name, version, description, tools, permissions, triggers, dependencies, created_at, updated_at"

// scanDefinition scans one definition row and decodes the JSON capability
// columns into typed fields. Decoding happens exactly once, here; everything
// above this layer sees plain structs.
func scanDefinition(row interface{ Scan(...any) error }) (*models.Definition, error) {
	var (
		workspaceID sql.NullString
		desc        sql.NullString
		tools       string
		permissions string
		triggers    string
		deps        string
		createdAt   time.Time
		updatedAt   time.Time
	)

	def := &models.Definition{}
	err := row.Scan(&def.ID, &def.PackageID, &workspaceID, &def.Name, &def.Version, &desc,
		&tools, &permissions, &triggers, &deps, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	def.WorkspaceID = workspaceID.String
	def.Description = desc.String
	def.CreatedAt = createdAt.Format(time.RFC3339)
	def.UpdatedAt = updatedAt.Format(time.RFC3339)

	if err := json.Unmarshal([]byte(tools), &def.Tools); err != nil {
		return nil, fmt.Errorf("failed to decode tools for definition %s: %w", def.ID, err)
	}
	if err := json.Unmarshal([]byte(permissions), &def.Permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions for definition %s: %w", def.ID, err)
	}
	if err := json.Unmarshal([]byte(triggers), &def.Triggers); err != nil {
		return nil, fmt.Errorf("failed to decode triggers for definition %s: %w", def.ID, err)
	}
	if err := json.Unmarshal([]byte(deps), &def.Dependencies); err != nil {
		return nil, fmt.Errorf("failed to decode dependencies for definition %s: %w", def.ID, err)
	}

	return def, nil
}

// encodeDefinition marshals the capability fields back to their JSON column
// values. Nil slices encode as empty arrays so the columns stay valid JSON.
func encodeDefinition(def *models.Definition) (tools, permissions, triggers, deps string, err error) {
	tools, err = encodeJSONList(def.Tools)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode tools: %w", err)
	}
	permissions, err = encodeJSONList(def.Permissions)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode permissions: %w", err)
	}
	triggers, err = encodeJSONList(def.Triggers)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode triggers: %w", err)
	}
	deps, err = encodeJSONList(def.Dependencies)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to encode dependencies: %w", err)
	}
	return tools, permissions, triggers, deps, nil
}

func encodeJSONList[T any](list []T) (string, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
