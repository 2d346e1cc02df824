package app

import (
	"context"
	"fmt"

	"github.com/example/depot/internal/core/conflict"
	"github.com/example/depot/internal/core/resolve"
	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// DependencyServiceImpl implements the DependencyService interface.
type DependencyServiceImpl struct {
	catalog       secondary.PackageCatalog
	installedRepo secondary.InstalledPackageRepository
	defStore      secondary.DefinitionStore
}

// NewDependencyService creates a new DependencyService with injected dependencies.
func NewDependencyService(
	catalog secondary.PackageCatalog,
	installedRepo secondary.InstalledPackageRepository,
	defStore secondary.DefinitionStore,
) *DependencyServiceImpl {
	return &DependencyServiceImpl{
		catalog:       catalog,
		installedRepo: installedRepo,
		defStore:      defStore,
	}
}

// CheckDependencies classifies every declared dependency of the candidate
// package against the target workspace. Catalog lookup failures degrade to a
// structured result with CanInstall=false instead of an error, so callers
// always get something renderable.
func (s *DependencyServiceImpl) CheckDependencies(ctx context.Context, packageID, workspaceID string) (*primary.DependencyCheckResult, error) {
	def, err := s.candidateDefinition(ctx, packageID)
	if err != nil {
		return degradedDependencyResult(packageID, err), nil
	}

	installed, err := s.installedAgents(ctx, workspaceID)
	if err != nil {
		return degradedDependencyResult(packageID, err), nil
	}

	result := resolve.Classify(toResolveDeps(def.Dependencies), installed)

	return &primary.DependencyCheckResult{
		CanInstall:            result.CanInstall,
		MissingDependencies:   result.MissingDependencies,
		InstalledDependencies: result.InstalledDependencies,
		Conflicts:             result.Conflicts,
		Suggestions:           result.Suggestions,
	}, nil
}

// CheckToolCompatibility reports tool-name collisions between the candidate
// and installed packages. Informational only.
func (s *DependencyServiceImpl) CheckToolCompatibility(ctx context.Context, packageID, workspaceID string) (*primary.ToolCompatibilityResult, error) {
	def, err := s.candidateDefinition(ctx, packageID)
	if err != nil {
		return nil, err
	}

	records, err := s.installedRepo.FindAllInWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed packages: %w", err)
	}

	result := &primary.ToolCompatibilityResult{Compatible: true}
	for _, rec := range records {
		localDef, err := s.defStore.Get(ctx, rec.LocalDefinitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load definition for %s: %w", rec.PackageID, err)
		}

		shared := conflict.Intersect(def.Tools, localDef.Tools)
		if len(shared) == 0 {
			continue
		}

		result.Compatible = false
		result.Collisions = append(result.Collisions, primary.ToolCollision{
			PackageID:   rec.PackageID,
			PackageName: localDef.Name,
			Tools:       shared,
		})
	}

	return result, nil
}

// candidateDefinition loads the master definition of the candidate package.
func (s *DependencyServiceImpl) candidateDefinition(ctx context.Context, packageID string) (*models.Definition, error) {
	pkg, err := s.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if pkg.DefinitionID == "" {
		return nil, fmt.Errorf("package %s has no definition: %w", packageID, primary.ErrInvalidState)
	}

	def, err := s.catalog.GetDefinition(ctx, pkg.DefinitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get definition: %w", err)
	}
	return def, nil
}

// installedAgents builds the classifier's view of what the workspace already
// has: package ID, agent name, installed version.
func (s *DependencyServiceImpl) installedAgents(ctx context.Context, workspaceID string) ([]resolve.InstalledAgent, error) {
	records, err := s.installedRepo.FindAllInWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed packages: %w", err)
	}

	agents := make([]resolve.InstalledAgent, 0, len(records))
	for _, rec := range records {
		localDef, err := s.defStore.Get(ctx, rec.LocalDefinitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load definition for %s: %w", rec.PackageID, err)
		}
		agents = append(agents, resolve.InstalledAgent{
			PackageID: rec.PackageID,
			AgentName: localDef.Name,
			Version:   rec.InstalledVersion,
		})
	}

	return agents, nil
}

// degradedDependencyResult is the structured fallback when the catalog or
// workspace cannot be read: nothing is classified, installation is blocked.
func degradedDependencyResult(packageID string, cause error) *primary.DependencyCheckResult {
	return &primary.DependencyCheckResult{
		CanInstall: false,
		Conflicts: []resolve.DependencyConflict{
			{
				Reason: fmt.Sprintf("unable to resolve dependencies for %s: %v", packageID, cause),
			},
		},
		Suggestions: []string{"Retry once the package catalog is reachable"},
	}
}

func toResolveDeps(deps []models.Dependency) []resolve.Dependency {
	out := make([]resolve.Dependency, 0, len(deps))
	for _, d := range deps {
		out = append(out, resolve.Dependency{
			AgentName:    d.Name,
			VersionRange: d.VersionRange,
			Required:     d.Required,
			Description:  d.Description,
		})
	}
	return out
}

// Ensure DependencyServiceImpl implements the interface
var _ primary.DependencyService = (*DependencyServiceImpl)(nil)
