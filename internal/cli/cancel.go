package cli

import (
	"fmt"

	"github.com/example/depot/internal/wire"
	"github.com/spf13/cobra"
)

// CancelCmd returns the cancel command
func CancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel [installation-id]",
		Short: "Cancel a running installation",
		Long: `Cancel a non-terminal installation attempt. The installer notices the
cancellation at the next step boundary and stops without running further
steps. Cancelling a completed, failed, or rolled back attempt is an error.`,
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

			if err := wire.InstallerService().Cancel(NewContext(), installationID); err != nil {
				return fmt.Errorf("failed to cancel %s: %w", installationID, err)
			}

			fmt.Printf("✓ Installation %s cancelled\n", installationID)
			return nil
		},
	}

	cmd.Flags().StringP("workspace", "w", "", "Workspace the attempt belongs to (default: config default_workspace)")

	return cmd
}
