package cli

import (
	"fmt"

	"github.com/example/depot/internal/core/install"
	"github.com/example/depot/internal/wire"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [installation-id]",
		Short: "Show installation status",
		Long: `Show the status of one installation attempt, or list recent attempts
for a workspace when no installation ID is given.

Examples:
  depot status INST-001
  depot status --workspace WS-001`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showInstallation(args[0])
			}

			workspaceFlag, _ := cmd.Flags().GetString("workspace")
			workspaceID, err := resolveWorkspace(workspaceFlag)
			if err != nil {
				return err
			}
			return listInstallations(workspaceID)
		},
	}

	cmd.Flags().StringP("workspace", "w", "", "Workspace to list attempts for (default: config default_workspace)")

	return cmd
}

// showInstallation prints one attempt with its full step list.
func showInstallation(installationID string) error {
	if err := validateEntityID(installationID, "installation"); err != nil {
		return err
	}

	inst, err := wire.InstallerService().GetStatus(NewContext(), installationID)
	if err != nil {
		return fmt.Errorf("failed to get installation: %w", err)
	}

	fmt.Printf("\nInstallation: %s\n", inst.ID)
	fmt.Printf("Package:   %s @ %s\n", inst.PackageID, inst.TargetVersion)
	fmt.Printf("Workspace: %s\n", inst.WorkspaceID)
	fmt.Printf("Status:    %s (%d%%)\n", attemptStatusColor(inst.Status), inst.Progress)
	if inst.CurrentStep != "" {
		fmt.Printf("Step:      %s\n", inst.CurrentStep)
	}
	if inst.ErrorMessage != "" {
		fmt.Printf("Error:     %s\n", color.RedString(inst.ErrorMessage))
	}
	if inst.InstalledPackageID != "" {
		fmt.Printf("Installed: %s\n", inst.InstalledPackageID)
	}
	fmt.Println()

	fmt.Printf("%-22s %-12s %s\n", "STEP", "STATUS", "ERROR")
	fmt.Println("────────────────────────────────────────────────────────────────")
	for _, step := range inst.Steps {
		fmt.Printf("%-22s %-12s %s\n", step.Step, stepStatusMarker(step.Status), step.Error)
	}
	fmt.Println()

	return nil
}

// listInstallations prints recent attempts for a workspace, newest first.
func listInstallations(workspaceID string) error {
	if err := validateEntityID(workspaceID, "workspace"); err != nil {
		return err
	}

	attempts, err := wire.InstallerService().ListAttempts(NewContext(), workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list installations: %w", err)
	}

	if len(attempts) == 0 {
		fmt.Println("No installation attempts found")
		return nil
	}

	fmt.Printf("\n%-12s %-10s %-10s %-22s %4s  %s\n", "ID", "PACKAGE", "VERSION", "STATUS", "PROG", "STARTED")
	fmt.Println("────────────────────────────────────────────────────────────────────────────")
	for _, a := range attempts {
		fmt.Printf("%-12s %-10s %-10s %-22s %3d%%  %s\n",
			a.ID, a.PackageID, a.TargetVersion, attemptStatusColor(a.Status), a.Progress, a.StartedAt)
	}
	fmt.Println()

	return nil
}

// attemptStatusColor colors a lifecycle status for terminal output.
func attemptStatusColor(status string) string {
	switch install.Status(status) {
	case install.StatusCompleted:
		return color.GreenString(status)
	case install.StatusFailed:
		return color.RedString(status)
	case install.StatusRolledBack:
		return color.YellowString(status)
	case install.StatusPending:
		return status
	default:
		return color.CyanString(status)
	}
}

// stepStatusMarker renders a step status with a checkmark marker.
func stepStatusMarker(status string) string {
	switch status {
	case install.StepStatusCompleted:
		return color.GreenString("✓ done")
	case install.StepStatusFailed:
		return color.RedString("✗ failed")
	case install.StepStatusInProgress:
		return color.CyanString("… running")
	default:
		return "pending"
	}
}
