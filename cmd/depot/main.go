package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/depot/internal/cli"
	"github.com/example/depot/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "depot",
		Short:   "depot - agent package installation orchestrator",
		Version: version.String(),
		Long: `depot manages a catalog of agent packages and orchestrates their
installation into workspaces: dependency resolution, conflict detection,
and a step-based installer with progress, cancellation, and rollback.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadActorConfig()
		},
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.InstallCmd())
	rootCmd.AddCommand(cli.UninstallCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.CancelCmd())
	rootCmd.AddCommand(cli.RollbackCmd())
	rootCmd.AddCommand(cli.CheckCmd())
	rootCmd.AddCommand(cli.CatalogCmd())
	rootCmd.AddCommand(cli.WorkspaceCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
