package secondary

import "context"

// WorkspaceRepository defines the secondary port for workspace persistence.
// Workspaces are minimal entities here - the install engine only needs
// existence and listing.
type WorkspaceRepository interface {
	// Create persists a new workspace.
	Create(ctx context.Context, workspace *WorkspaceRecord) error

	// GetByID retrieves a workspace by its ID.
	GetByID(ctx context.Context, id string) (*WorkspaceRecord, error)

	// List retrieves all workspaces ordered by creation time.
	List(ctx context.Context) ([]*WorkspaceRecord, error)

	// GetNextID returns the next available workspace ID.
	GetNextID(ctx context.Context) (string, error)
}

// WorkspaceRecord represents a workspace as stored in persistence.
type WorkspaceRecord struct {
	ID        string
	Name      string
	Status    string
	CreatedAt string
	UpdatedAt string
}
