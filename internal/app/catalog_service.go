package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/depot/internal/core/semver"
	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// CatalogServiceImpl implements the CatalogService interface.
type CatalogServiceImpl struct {
	catalog secondary.PackageCatalog
}

// NewCatalogService creates a new CatalogService with injected dependencies.
func NewCatalogService(catalog secondary.PackageCatalog) *CatalogServiceImpl {
	return &CatalogServiceImpl{catalog: catalog}
}

// Publish creates a package from a decoded manifest, or adds a new version
// to an existing package of the same name. New versions must be strictly
// newer than the current latest.
func (s *CatalogServiceImpl) Publish(ctx context.Context, req primary.PublishRequest) (*primary.PublishResponse, error) {
	existing, err := s.catalog.GetPackageByName(ctx, req.Name)
	if err != nil && !errors.Is(err, primary.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up package: %w", err)
	}

	definitionID := "DEF-" + uuid.NewString()

	var packageID string
	if existing == nil {
		packageID, err = s.catalog.GetNextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate package ID: %w", err)
		}
		err = s.catalog.CreatePackage(ctx, &secondary.PackageRecord{
			ID:            packageID,
			Name:          req.Name,
			LatestVersion: req.Version,
			Status:        models.PackageStatusPublished,
			DefinitionID:  definitionID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create package: %w", err)
		}
	} else {
		if semver.Compare(req.Version, existing.LatestVersion) <= 0 {
			return nil, fmt.Errorf("version %s is not newer than published version %s: %w",
				req.Version, existing.LatestVersion, primary.ErrInvalidState)
		}
		packageID = existing.ID
	}

	def := &models.Definition{
		ID:           definitionID,
		PackageID:    packageID,
		Name:         req.Name,
		Version:      req.Version,
		Description:  req.Description,
		Tools:        req.Tools,
		Permissions:  req.Permissions,
		Triggers:     req.Triggers,
		Dependencies: req.Dependencies,
	}
	if err := s.catalog.CreateDefinition(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to create definition: %w", err)
	}

	if existing != nil {
		if err := s.catalog.UpdateLatestVersion(ctx, packageID, req.Version, definitionID); err != nil {
			return nil, fmt.Errorf("failed to update latest version: %w", err)
		}
	}

	return &primary.PublishResponse{
		PackageID:    packageID,
		DefinitionID: definitionID,
		Version:      req.Version,
	}, nil
}

// GetPackage retrieves a package with its master definition.
func (s *CatalogServiceImpl) GetPackage(ctx context.Context, packageID string) (*primary.Package, error) {
	record, err := s.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	pkg := toPackage(record)
	if record.DefinitionID != "" {
		def, err := s.catalog.GetDefinition(ctx, record.DefinitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get definition: %w", err)
		}
		pkg.Definition = def
	}

	return pkg, nil
}

// ListPackages lists catalog packages with optional filters.
func (s *CatalogServiceImpl) ListPackages(ctx context.Context, filters primary.PackageFilters) ([]*primary.Package, error) {
	records, err := s.catalog.List(ctx, secondary.PackageFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	packages := make([]*primary.Package, 0, len(records))
	for _, record := range records {
		packages = append(packages, toPackage(record))
	}
	return packages, nil
}

func toPackage(record *secondary.PackageRecord) *primary.Package {
	return &primary.Package{
		ID:            record.ID,
		Name:          record.Name,
		LatestVersion: record.LatestVersion,
		Status:        record.Status,
		InstallCount:  record.InstallCount,
		CreatedAt:     record.CreatedAt,
	}
}

// Ensure CatalogServiceImpl implements the interface
var _ primary.CatalogService = (*CatalogServiceImpl)(nil)
