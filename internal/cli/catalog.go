package cli

import (
	"fmt"

	"github.com/example/depot/internal/manifest"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/wire"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the package catalog",
	Long:  "Publish, list, and inspect agent packages in the depot catalog",
}

var catalogPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a package version from a manifest",
	Long: `Publish a new package (or a new version of an existing one) from a TOML
manifest. Versions must increase; republishing an equal or older version
is rejected.

Examples:
  depot catalog publish -f manifest.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return fmt.Errorf("must specify a manifest file with -f")
		}

		m, err := manifest.Load(path)
		if err != nil {
			return err
		}

		def := m.Definition()
		resp, err := wire.CatalogService().Publish(NewContext(), primary.PublishRequest{
			Name:         m.Name,
			Version:      m.Version,
			Description:  m.Description,
			Tools:        m.Tools,
			Permissions:  m.Permissions,
			Triggers:     def.Triggers,
			Dependencies: def.Dependencies,
		})
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", m.Name, err)
		}

		fmt.Printf("✓ Published %s %s as %s (definition %s)\n",
			m.Name, resp.Version, resp.PackageID, resp.DefinitionID)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		packages, err := wire.CatalogService().ListPackages(NewContext(), primary.PackageFilters{
			Status: status,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list packages: %w", err)
		}

		if len(packages) == 0 {
			fmt.Println("No packages found")
			return nil
		}

		fmt.Printf("\n%-10s %-20s %-10s %-12s %8s\n", "ID", "NAME", "VERSION", "STATUS", "INSTALLS")
		fmt.Println("────────────────────────────────────────────────────────────────")
		for _, pkg := range packages {
			fmt.Printf("%-10s %-20s %-10s %-12s %8d\n",
				pkg.ID, pkg.Name, pkg.LatestVersion, pkg.Status, pkg.InstallCount)
		}
		fmt.Println()

		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [package-id]",
	Short: "Show package details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if err := validateEntityID(id, "package"); err != nil {
			return err
		}

		pkg, err := wire.CatalogService().GetPackage(NewContext(), id)
		if err != nil {
			return fmt.Errorf("failed to get package: %w", err)
		}

		fmt.Printf("\nPackage: %s\n", pkg.ID)
		fmt.Printf("Name:    %s\n", pkg.Name)
		fmt.Printf("Version: %s\n", pkg.LatestVersion)
		fmt.Printf("Status:  %s\n", pkg.Status)
		fmt.Printf("Installs: %d\n", pkg.InstallCount)
		fmt.Printf("Created: %s\n", pkg.CreatedAt)
		fmt.Println()

		if def := pkg.Definition; def != nil {
			if def.Description != "" {
				fmt.Printf("Description: %s\n", def.Description)
			}
			if len(def.Tools) > 0 {
				fmt.Println("Tools:")
				for _, tool := range def.Tools {
					fmt.Printf("  - %s\n", tool)
				}
			}
			if len(def.Permissions) > 0 {
				fmt.Println("Permissions:")
				for _, perm := range def.Permissions {
					fmt.Printf("  - %s\n", perm)
				}
			}
			if len(def.Triggers) > 0 {
				fmt.Println("Triggers:")
				for _, trigger := range def.Triggers {
					if trigger.Event != "" {
						fmt.Printf("  - %s (%s)\n", trigger.Type, trigger.Event)
					} else {
						fmt.Printf("  - %s\n", trigger.Type)
					}
				}
			}
			if len(def.Dependencies) > 0 {
				fmt.Println("Dependencies:")
				for _, dep := range def.Dependencies {
					requirement := "optional"
					if dep.Required {
						requirement = "required"
					}
					fmt.Printf("  - %s %s (%s)\n", dep.Name, dep.VersionRange, requirement)
				}
			}
			fmt.Println()
		}

		return nil
	},
}

// CatalogCmd returns the catalog command
func CatalogCmd() *cobra.Command {
	catalogPublishCmd.Flags().StringP("file", "f", "manifest.toml", "Path to the package manifest")
	catalogListCmd.Flags().StringP("status", "s", "", "Filter by status (published, deprecated)")
	catalogListCmd.Flags().Int("limit", 0, "Limit the number of results")

	catalogCmd.AddCommand(catalogPublishCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)

	return catalogCmd
}
