package cli

import (
	"fmt"

	"github.com/example/depot/internal/wire"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CheckCmd returns the check command
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [package-id]",
		Short: "Dry-run the dependency and conflict checks for a package",
		Long: `Run the same dependency and conflict checks the installer runs, without
installing anything. Useful for previewing whether an install would be
blocked and what --force could override.

Examples:
  depot check PKG-001 --workspace WS-001
  depot check PKG-001 --version 1.2.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packageID := args[0]
			if err := validateEntityID(packageID, "package"); err != nil {
				return err
			}

			workspaceFlag, _ := cmd.Flags().GetString("workspace")
			version, _ := cmd.Flags().GetString("version")

			workspaceID, err := resolveWorkspace(workspaceFlag)
			if err != nil {
				return err
			}
			if err := validateEntityID(workspaceID, "workspace"); err != nil {
				return err
			}

			ctx := NewContext()

			deps, err := wire.DependencyService().CheckDependencies(ctx, packageID, workspaceID)
			if err != nil {
				return fmt.Errorf("failed to check dependencies: %w", err)
			}

			fmt.Println()
			fmt.Println("Dependencies:")
			if deps.CanInstall && len(deps.InstalledDependencies) == 0 && len(deps.MissingDependencies) == 0 {
				fmt.Println("  none declared")
			}
			for _, dep := range deps.InstalledDependencies {
				fmt.Printf("  %s %s %s (installed %s as %s)\n",
					color.GreenString("✓"), dep.Dependency.AgentName, dep.Dependency.VersionRange,
					dep.InstalledVersion, dep.PackageID)
			}
			for _, dep := range deps.MissingDependencies {
				fmt.Printf("  %s %s %s (missing)\n", color.RedString("✗"), dep.AgentName, dep.VersionRange)
			}
			for _, c := range deps.Conflicts {
				fmt.Printf("  %s %s: %s\n", color.RedString("✗"), c.Dependency.AgentName, c.Reason)
			}
			for _, suggestion := range deps.Suggestions {
				fmt.Printf("  hint: %s\n", suggestion)
			}

			conflicts, err := wire.ConflictService().CheckConflicts(ctx, packageID, workspaceID, version)
			if err != nil {
				return fmt.Errorf("failed to check conflicts: %w", err)
			}

			fmt.Println()
			fmt.Println("Conflicts:")
			if !conflicts.HasConflicts {
				fmt.Println("  none detected")
			}
			for _, c := range conflicts.Conflicts {
				fmt.Printf("  %s [%s] %s\n", c.Type, severityColor(c.Severity), c.Message)
				if c.Resolution != "" {
					fmt.Printf("    resolution: %s\n", c.Resolution)
				}
			}

			tools, err := wire.DependencyService().CheckToolCompatibility(ctx, packageID, workspaceID)
			if err != nil {
				return fmt.Errorf("failed to check tool compatibility: %w", err)
			}
			if !tools.Compatible {
				fmt.Println()
				fmt.Println("Tool collisions (informational):")
				for _, collision := range tools.Collisions {
					fmt.Printf("  %s (%s): %v\n", collision.PackageName, collision.PackageID, collision.Tools)
				}
			}

			fmt.Println()
			switch {
			case deps.CanInstall && !conflicts.HasConflicts:
				fmt.Println(color.GreenString("✓ Install would proceed"))
			case conflicts.CanForceInstall && deps.CanInstall:
				fmt.Println(color.YellowString("⚠ Install blocked; --force would override"))
			default:
				fmt.Println(color.RedString("✗ Install blocked"))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringP("workspace", "w", "", "Target workspace ID (default: config default_workspace)")
	cmd.Flags().String("version", "", "Version to check (default: latest)")

	return cmd
}
