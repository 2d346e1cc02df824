package primary

import (
	"context"

	"github.com/example/depot/internal/models"
)

// CatalogService defines the primary port for catalog operations: publishing
// package definitions and browsing what is installable.
type CatalogService interface {
	// Publish creates a package (or a new version of an existing one)
	// from a decoded manifest and marks it published.
	Publish(ctx context.Context, req PublishRequest) (*PublishResponse, error)

	// GetPackage retrieves a package with its master definition.
	GetPackage(ctx context.Context, packageID string) (*Package, error)

	// ListPackages lists catalog packages with optional filters.
	ListPackages(ctx context.Context, filters PackageFilters) ([]*Package, error)
}

// PublishRequest contains the decoded manifest to publish.
type PublishRequest struct {
	Name         string
	Version      string
	Description  string
	Tools        []string
	Permissions  []string
	Triggers     []models.Trigger
	Dependencies []models.Dependency
}

// PublishResponse contains the result of publishing.
type PublishResponse struct {
	PackageID    string
	DefinitionID string
	Version      string
}

// Package represents a catalog package at the port boundary.
type Package struct {
	ID            string
	Name          string
	LatestVersion string
	Status        string
	InstallCount  int
	Definition    *models.Definition
	CreatedAt     string
}

// PackageFilters contains filter options for listing packages.
type PackageFilters struct {
	Status string
	Limit  int
}

// WorkspaceService defines the primary port for workspace management.
type WorkspaceService interface {
	// CreateWorkspace creates a new workspace.
	CreateWorkspace(ctx context.Context, name string) (*Workspace, error)

	// ListWorkspaces lists all workspaces.
	ListWorkspaces(ctx context.Context) ([]*Workspace, error)
}

// Workspace represents a workspace at the port boundary.
type Workspace struct {
	ID        string
	Name      string
	Status    string
	CreatedAt string
}
