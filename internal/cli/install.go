package cli

import (
	"errors"
	"fmt"

	"github.com/example/depot/internal/core/conflict"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/wire"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// InstallCmd returns the install command
func InstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [package-id]",
		Short: "Install a package into a workspace",
		Long: `Run the full installation sequence for a catalog package.

The installer checks dependencies and conflicts first, then copies the
package definition into the workspace step by step, reporting progress as
it goes. A blocked pre-check prints what is missing or colliding; low and
medium severity conflicts can be overridden with --force.

Examples:
  depot install PKG-001 --workspace WS-001
  depot install PKG-001 --version 1.2.0 --auto-update
  depot install PKG-001 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packageID := args[0]
			if err := validateEntityID(packageID, "package"); err != nil {
				return err
			}

			workspaceFlag, _ := cmd.Flags().GetString("workspace")
			version, _ := cmd.Flags().GetString("version")
			autoUpdate, _ := cmd.Flags().GetBool("auto-update")
			skipDeps, _ := cmd.Flags().GetBool("skip-deps")
			force, _ := cmd.Flags().GetBool("force")

			workspaceID, err := resolveWorkspace(workspaceFlag)
			if err != nil {
				return err
			}
			if err := validateEntityID(workspaceID, "workspace"); err != nil {
				return err
			}
			if err := requireAdmin(workspaceID); err != nil {
				return err
			}

			resp, err := wire.InstallerService().Install(NewContext(), primary.InstallRequest{
				PackageID:           packageID,
				WorkspaceID:         workspaceID,
				Version:             version,
				AutoUpdate:          autoUpdate,
				SkipDependencyCheck: skipDeps,
				ForceInstall:        force,
			})
			if err != nil {
				var preCheck *primary.PreCheckError
				if errors.As(err, &preCheck) {
					printPreCheck(preCheck.Check)
					return fmt.Errorf("installation blocked")
				}
				return fmt.Errorf("failed to install %s: %w", packageID, err)
			}

			fmt.Println()
			fmt.Printf("✓ Installed %s into %s (installation %s)\n",
				packageID, workspaceID, resp.InstallationID)
			fmt.Printf("  Version: %s\n", resp.InstalledPackage.InstalledVersion)
			fmt.Printf("  Local definition: %s\n", resp.InstalledPackage.LocalDefinitionID)
			return nil
		},
	}

	cmd.Flags().StringP("workspace", "w", "", "Target workspace ID (default: config default_workspace)")
	cmd.Flags().String("version", "", "Version to install (default: latest)")
	cmd.Flags().Bool("auto-update", false, "Enable auto-update for this installation")
	cmd.Flags().Bool("skip-deps", false, "Skip the pre-install dependency and conflict checks")
	cmd.Flags().BoolP("force", "f", false, "Proceed despite low/medium severity conflicts")

	return cmd
}

// printPreCheck renders the dependency and conflict results that blocked an
// installation.
func printPreCheck(check primary.PreInstallCheck) {
	fmt.Println()
	fmt.Println(color.New(color.FgRed, color.Bold).Sprint("Installation blocked by pre-install check"))

	if deps := check.Dependencies; deps != nil {
		for _, dep := range deps.MissingDependencies {
			fmt.Printf("  missing dependency: %s %s\n", dep.AgentName, dep.VersionRange)
		}
		for _, c := range deps.Conflicts {
			fmt.Printf("  dependency conflict: %s (%s)\n", c.Dependency.AgentName, c.Reason)
		}
		for _, suggestion := range deps.Suggestions {
			fmt.Printf("  hint: %s\n", suggestion)
		}
	}

	if conflicts := check.Conflicts; conflicts != nil {
		for _, c := range conflicts.Conflicts {
			fmt.Printf("  %s conflict [%s]: %s\n", c.Type, severityColor(c.Severity), c.Message)
			if c.Resolution != "" {
				fmt.Printf("    resolution: %s\n", c.Resolution)
			}
		}
		if conflicts.CanForceInstall {
			fmt.Println()
			fmt.Println("Re-run with --force to override these warnings")
		}
	}
}

// severityColor renders a conflict severity with the usual traffic-light
// coloring.
func severityColor(s conflict.Severity) string {
	switch s {
	case conflict.SeverityLow:
		return color.CyanString(string(s))
	case conflict.SeverityMedium:
		return color.YellowString(string(s))
	default:
		return color.RedString(string(s))
	}
}
