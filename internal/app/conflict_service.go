package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/depot/internal/core/conflict"
	"github.com/example/depot/internal/core/semver"
	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// ConflictServiceImpl implements the ConflictService interface.
type ConflictServiceImpl struct {
	catalog       secondary.PackageCatalog
	installedRepo secondary.InstalledPackageRepository
	defStore      secondary.DefinitionStore
}

// NewConflictService creates a new ConflictService with injected dependencies.
func NewConflictService(
	catalog secondary.PackageCatalog,
	installedRepo secondary.InstalledPackageRepository,
	defStore secondary.DefinitionStore,
) *ConflictServiceImpl {
	return &ConflictServiceImpl{
		catalog:       catalog,
		installedRepo: installedRepo,
		defStore:      defStore,
	}
}

// CheckConflicts scans the workspace for collisions with the candidate
// package. Lookup failures degrade to a single critical conflict so the
// caller still gets a renderable result and installation stays blocked.
func (s *ConflictServiceImpl) CheckConflicts(ctx context.Context, packageID, workspaceID, targetVersion string) (*primary.ConflictCheckResult, error) {
	pkg, err := s.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return degradedConflictResult(packageID, err), nil
	}
	if pkg.DefinitionID == "" {
		return degradedConflictResult(packageID, fmt.Errorf("package has no definition")), nil
	}

	candidate, err := s.catalog.GetDefinition(ctx, pkg.DefinitionID)
	if err != nil {
		return degradedConflictResult(packageID, err), nil
	}

	if targetVersion == "" {
		targetVersion = pkg.LatestVersion
	}

	records, err := s.installedRepo.FindAllInWorkspace(ctx, workspaceID)
	if err != nil {
		return degradedConflictResult(packageID, err), nil
	}

	var conflicts []conflict.Conflict

	// Batch-fetch the local definitions once; every per-package check below
	// reads from this map.
	defs := make(map[string]*models.Definition, len(records))
	for _, rec := range records {
		localDef, err := s.defStore.Get(ctx, rec.LocalDefinitionID)
		if err != nil {
			return degradedConflictResult(packageID, err), nil
		}
		defs[rec.PackageID] = localDef
	}

	for _, rec := range records {
		installedDef := defs[rec.PackageID]

		if rec.PackageID == packageID {
			conflicts = append(conflicts, conflict.Conflict{
				Type:                   conflict.TypeVersion,
				Severity:               conflict.SeverityHigh,
				Message:                fmt.Sprintf("%s is already installed in this workspace (version %s)", installedDef.Name, rec.InstalledVersion),
				ConflictingPackageID:   rec.PackageID,
				ConflictingPackageName: installedDef.Name,
				Details:                map[string]string{"installedVersion": rec.InstalledVersion, "targetVersion": targetVersion},
				Resolution:             "Uninstall the existing package before reinstalling",
			})
			continue
		}

		if shared := conflict.Intersect(candidate.Tools, installedDef.Tools); len(shared) > 0 {
			conflicts = append(conflicts, conflict.Conflict{
				Type:                   conflict.TypeToolPermission,
				Severity:               conflict.SeverityLow,
				Message:                fmt.Sprintf("%s shares tools with %s: %s", candidate.Name, installedDef.Name, strings.Join(shared, ", ")),
				ConflictingPackageID:   rec.PackageID,
				ConflictingPackageName: installedDef.Name,
				Details:                map[string]string{"tools": strings.Join(shared, ",")},
				Resolution:             "Shared tools are allowed; review if both packages should act on the same tools",
			})
		}

		if shared := conflict.Intersect(candidate.Permissions, installedDef.Permissions); len(shared) > 0 {
			conflicts = append(conflicts, conflict.Conflict{
				Type:                   conflict.TypeToolPermission,
				Severity:               conflict.SeverityMedium,
				Message:                fmt.Sprintf("%s shares permissions with %s: %s", candidate.Name, installedDef.Name, strings.Join(shared, ", ")),
				ConflictingPackageID:   rec.PackageID,
				ConflictingPackageName: installedDef.Name,
				Details:                map[string]string{"permissions": strings.Join(shared, ",")},
				Resolution:             "Review the overlapping permission grants before installing",
			})
		}

		if shared := sharedTriggers(candidate.Triggers, installedDef.Triggers); len(shared) > 0 {
			conflicts = append(conflicts, conflict.Conflict{
				Type:                   conflict.TypeTrigger,
				Severity:               conflict.SeverityHigh,
				Message:                fmt.Sprintf("%s and %s both trigger on: %s", candidate.Name, installedDef.Name, strings.Join(shared, ", ")),
				ConflictingPackageID:   rec.PackageID,
				ConflictingPackageName: installedDef.Name,
				Details:                map[string]string{"triggers": strings.Join(shared, ",")},
				Resolution:             "Two agents reacting to the same trigger would both fire; remove one trigger or uninstall the other package",
			})
		}
	}

	// Installing an outdated version is worth flagging even with an empty
	// workspace.
	if semver.Compare(targetVersion, pkg.LatestVersion) < 0 {
		conflicts = append(conflicts, conflict.Conflict{
			Type:       conflict.TypeVersion,
			Severity:   conflict.SeverityMedium,
			Message:    fmt.Sprintf("requested version %s is older than the latest published version %s", targetVersion, pkg.LatestVersion),
			Details:    map[string]string{"targetVersion": targetVersion, "latestVersion": pkg.LatestVersion},
			Resolution: fmt.Sprintf("Install version %s instead", pkg.LatestVersion),
		})
	}

	return &primary.ConflictCheckResult{
		HasConflicts:    len(conflicts) > 0,
		Conflicts:       conflicts,
		CanForceInstall: conflict.CanForceInstall(conflicts),
		Warnings:        conflict.Warnings(conflicts),
	}, nil
}

// sharedTriggers returns the (type, event) pairs two trigger lists have in
// common, preserving the candidate's order. A collision requires both
// fields to match exactly, whatever the trigger type.
func sharedTriggers(a, b []models.Trigger) []string {
	return conflict.Intersect(triggerKeys(a), triggerKeys(b))
}

func triggerKeys(triggers []models.Trigger) []string {
	var keys []string
	for _, t := range triggers {
		switch {
		case t.Type == "" && t.Event == "":
			continue
		case t.Event == "":
			keys = append(keys, t.Type)
		default:
			keys = append(keys, t.Type+":"+t.Event)
		}
	}
	return keys
}

// degradedConflictResult is the structured fallback when the catalog or
// workspace cannot be read: one critical conflict, never forceable.
func degradedConflictResult(packageID string, cause error) *primary.ConflictCheckResult {
	conflicts := []conflict.Conflict{
		{
			Type:       conflict.TypeResource,
			Severity:   conflict.SeverityCritical,
			Message:    fmt.Sprintf("unable to check conflicts for %s: %v", packageID, cause),
			Resolution: "Retry once the package catalog is reachable",
		},
	}
	return &primary.ConflictCheckResult{
		HasConflicts:    true,
		Conflicts:       conflicts,
		CanForceInstall: false,
	}
}

// Ensure ConflictServiceImpl implements the interface
var _ primary.ConflictService = (*ConflictServiceImpl)(nil)
