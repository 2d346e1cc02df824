package cli

import (
	"fmt"

	"github.com/example/depot/internal/wire"
	"github.com/spf13/cobra"
)

// UninstallCmd returns the uninstall command
func UninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall [package-id]",
		Short: "Remove an installed package from a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packageID := args[0]
			if err := validateEntityID(packageID, "package"); err != nil {
				return err
			}

			workspaceFlag, _ := cmd.Flags().GetString("workspace")
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

			if err := wire.InstallerService().Uninstall(NewContext(), workspaceID, packageID); err != nil {
				return fmt.Errorf("failed to uninstall %s: %w", packageID, err)
			}

			fmt.Printf("✓ Uninstalled %s from %s\n", packageID, workspaceID)
			return nil
		},
	}

	cmd.Flags().StringP("workspace", "w", "", "Workspace to uninstall from (default: config default_workspace)")

	return cmd
}
