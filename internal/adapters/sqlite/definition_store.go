package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// DefinitionStore implements secondary.DefinitionStore with SQLite. It
// serves the workspace-local definition copies created by installs.
type DefinitionStore struct {
	db *sql.DB
}

// NewDefinitionStore creates a new SQLite definition store.
func NewDefinitionStore(db *sql.DB) *DefinitionStore {
	return &DefinitionStore{db: db}
}

// Get retrieves a definition copy by its ID.
func (s *DefinitionStore) Get(ctx context.Context, definitionID string) (*models.Definition, error) {
	row := s.db.QueryRowContext(ctx,
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

// Delete removes a definition copy. Deleting an absent copy is not an error;
// rollback relies on that.
func (s *DefinitionStore) Delete(ctx context.Context, definitionID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM package_definitions WHERE id = ?", definitionID)
	if err != nil {
		return fmt.Errorf("failed to delete definition: %w", err)
	}
	return nil
}

// Ensure DefinitionStore implements the interface
var _ secondary.DefinitionStore = (*DefinitionStore)(nil)
