package cli

import (
	"fmt"

	"github.com/example/depot/internal/wire"
	"github.com/spf13/cobra"
)

// RollbackCmd returns the rollback command
func RollbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollback [installation-id]",
		Short: "Roll back a failed installation",
		Long: `Roll back a failed or cancelled installation attempt, removing any
installed package row and workspace-local definition copy it produced.
Safe to run repeatedly; a second rollback of the same attempt is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			installationID := args[0]
			if err := validateEntityID(installationID, "installation"); err != nil {
				return err
			}

			workspaceFlag, _ := cmd.Flags().GetString("workspace")
			workspaceID, err := resolveWorkspace(workspaceFlag)
			if err != nil {
				return err
			}
			if err := requireAdmin(workspaceID); err != nil {
				return err
			}

			if err := wire.InstallerService().Rollback(NewContext(), installationID); err != nil {
				return fmt.Errorf("failed to roll back %s: %w", installationID, err)
			}

			fmt.Printf("✓ Installation %s rolled back\n", installationID)
			return nil
		},
	}

	cmd.Flags().StringP("workspace", "w", "", "Workspace the attempt belongs to (default: config default_workspace)")

	return cmd
}
