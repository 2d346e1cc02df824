package cli

import (
	"fmt"

	"github.com/example/depot/internal/wire"
	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
	Long:  "Create and list the workspaces packages are installed into",
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := wire.WorkspaceService().CreateWorkspace(NewContext(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		fmt.Printf("✓ Created workspace %s: %s\n", ws.ID, ws.Name)
		return nil
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaces, err := wire.WorkspaceService().ListWorkspaces(NewContext())
		if err != nil {
			return fmt.Errorf("failed to list workspaces: %w", err)
		}

		if len(workspaces) == 0 {
			fmt.Println("No workspaces found")
			return nil
		}

		fmt.Printf("\n%-10s %-10s %s\n", "ID", "STATUS", "NAME")
		fmt.Println("────────────────────────────────────────────────")
		for _, ws := range workspaces {
			marker := ""
			if ws.ID == defaultWorkspace() {
				marker = " (default)"
			}
			fmt.Printf("%-10s %-10s %s%s\n", ws.ID, ws.Status, ws.Name, marker)
		}
		fmt.Println()

		return nil
	},
}

// WorkspaceCmd returns the workspace command
func WorkspaceCmd() *cobra.Command {
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceListCmd)

	return workspaceCmd
}
