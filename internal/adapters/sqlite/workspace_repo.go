package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// WorkspaceRepository implements secondary.WorkspaceRepository with SQLite.
type WorkspaceRepository struct {
	db *sql.DB
}

// NewWorkspaceRepository creates a new SQLite workspace repository.
func NewWorkspaceRepository(db *sql.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create persists a new workspace.
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *secondary.WorkspaceRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO workspaces (id, name, status) VALUES (?, ?, 'active')",
		workspace.ID, workspace.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// GetByID retrieves a workspace by its ID.
func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*secondary.WorkspaceRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.WorkspaceRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, status, created_at, updated_at FROM workspaces WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &record.Status, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workspace %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// List retrieves all workspaces ordered by creation time.
func (r *WorkspaceRepository) List(ctx context.Context) ([]*secondary.WorkspaceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, status, created_at, updated_at FROM workspaces ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*secondary.WorkspaceRecord
	for rows.Next() {
		var (
			createdAt time.Time
			updatedAt time.Time
		)

		record := &secondary.WorkspaceRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.Status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}

		record.CreatedAt = createdAt.Format(time.RFC3339)
		record.UpdatedAt = updatedAt.Format(time.RFC3339)

		workspaces = append(workspaces, record)
	}

	return workspaces, nil
}

// GetNextID returns the next available workspace ID.
func (r *WorkspaceRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 4) AS INTEGER)), 0) FROM workspaces",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next workspace ID: %w", err)
	}

	return fmt.Sprintf("WS-%03d", maxID+1), nil
}

// Ensure WorkspaceRepository implements the interface
var _ secondary.WorkspaceRepository = (*WorkspaceRepository)(nil)
