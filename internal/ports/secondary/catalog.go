// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// external systems.
package secondary

import (
	"context"

	"github.com/example/depot/internal/models"
)

// PackageCatalog defines the secondary port for the published-package
// catalog.
type PackageCatalog interface {
	// GetPackage retrieves a package by its ID.
	GetPackage(ctx context.Context, id string) (*PackageRecord, error)

	// GetPackageByName retrieves a package by its unique name.
	GetPackageByName(ctx context.Context, name string) (*PackageRecord, error)

	// GetDefinition retrieves a definition (catalog master or workspace
	// copy) by its ID, with capability lists decoded.
	GetDefinition(ctx context.Context, definitionID string) (*models.Definition, error)

	// CreatePackage persists a new package.
	CreatePackage(ctx context.Context, pkg *PackageRecord) error

	// CreateDefinition persists a new definition.
	CreateDefinition(ctx context.Context, def *models.Definition) error

	// UpdateLatestVersion updates a package's latest version and the
	// definition it points at.
	UpdateLatestVersion(ctx context.Context, packageID, version, definitionID string) error

	// List retrieves packages matching the given filters.
	List(ctx context.Context, filters PackageFilters) ([]*PackageRecord, error)

	// GetNextID returns the next available package ID.
	GetNextID(ctx context.Context) (string, error)
}

// PackageRecord represents a catalog package as stored in persistence.
type PackageRecord struct {
	ID            string
	Name          string
	LatestVersion string
	Status        string // draft, published, archived
	InstallCount  int
	DefinitionID  string // catalog master definition
	CreatedAt     string
	UpdatedAt     string
}

// PackageFilters contains filter options for querying packages.
type PackageFilters struct {
	Status string
	Limit  int
}
