// Package wire provides dependency injection for the depot application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"github.com/example/depot/internal/adapters/auth"
	"github.com/example/depot/internal/adapters/notify"
	"github.com/example/depot/internal/adapters/sqlite"
	"github.com/example/depot/internal/app"
	"github.com/example/depot/internal/config"
	"github.com/example/depot/internal/db"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

var (
	installerService  primary.InstallerService
	dependencyService primary.DependencyService
	conflictService   primary.ConflictService
	catalogService    primary.CatalogService
	workspaceService  primary.WorkspaceService
	authorizer        secondary.MembershipAuthorizer
	once              sync.Once
)

// InstallerService returns the singleton InstallerService instance.
func InstallerService() primary.InstallerService {
	once.Do(initServices)
	return installerService
}

// DependencyService returns the singleton DependencyService instance.
func DependencyService() primary.DependencyService {
	once.Do(initServices)
	return dependencyService
}

// ConflictService returns the singleton ConflictService instance.
func ConflictService() primary.ConflictService {
	once.Do(initServices)
	return conflictService
}

// CatalogService returns the singleton CatalogService instance.
func CatalogService() primary.CatalogService {
	once.Do(initServices)
	return catalogService
}

// WorkspaceService returns the singleton WorkspaceService instance.
func WorkspaceService() primary.WorkspaceService {
	once.Do(initServices)
	return workspaceService
}

// Authorizer returns the singleton MembershipAuthorizer instance.
func Authorizer() secondary.MembershipAuthorizer {
	once.Do(initServices)
	return authorizer
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	catalogRepo := sqlite.NewCatalogRepository(database)
	installedRepo := sqlite.NewInstalledPackageRepository(database)
	defStore := sqlite.NewDefinitionStore(database)
	attemptRepo := sqlite.NewAttemptRepository(database)
	transactor := sqlite.NewInstallTransactor(database)
	sink := notify.NewWriterSink(os.Stdout)

	// The CLI deployment resolves roles from the local configuration; a
	// server deployment would swap in a membership-table lookup here.
	authorizer = auth.NewAuthorizer(func(workspaceID, actorID string) (string, error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cfg, err := config.LoadConfig(home)
		if err != nil {
			return "", err
		}
		return cfg.Role, nil
	})

	// Create services (primary ports implementation)
	dependencyService = app.NewDependencyService(catalogRepo, installedRepo, defStore)
	conflictService = app.NewConflictService(catalogRepo, installedRepo, defStore)
	installerService = app.NewInstallerService(catalogRepo, installedRepo, defStore, attemptRepo, transactor, sink, dependencyService, conflictService)
	catalogService = app.NewCatalogService(catalogRepo)
	workspaceService = app.NewWorkspaceService(sqlite.NewWorkspaceRepository(database))
}
