package cli

import (
	"fmt"
	"os"

	"github.com/example/depot/internal/config"
	"github.com/example/depot/internal/db"
	"github.com/spf13/cobra"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the depot database and configuration",
		Long:  `Initialize the depot database at ~/.depot/depot.db with the required schema and write an initial config.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, _ := cmd.Flags().GetString("actor")
			role, _ := cmd.Flags().GetString("role")
			workspace, _ := cmd.Flags().GetString("workspace")
			demo, _ := cmd.Flags().GetBool("demo")

			if role != config.RoleAdmin && role != config.RoleMember {
				return fmt.Errorf("invalid role %q: must be %s or %s", role, config.RoleAdmin, config.RoleMember)
			}

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing depot database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			if err := db.RunMigrations(); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			if err := initConfig(actorID, role, workspace); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			fmt.Println("✓ Config file created at ~/.depot/config.json")

			if demo {
				database, err := db.GetDB()
				if err != nil {
					return fmt.Errorf("failed to open database: %w", err)
				}
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed demo fixtures: %w", err)
				}
				fmt.Println("✓ Demo fixtures loaded")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  depot workspace add \"my-team\"")
			fmt.Println("  depot catalog list")

			return nil
		},
	}

	cmd.Flags().String("actor", "USR-001", "Actor identity for this machine (USR-XXX)")
	cmd.Flags().String("role", config.RoleAdmin, "Workspace role (ADMIN or MEMBER)")
	cmd.Flags().StringP("workspace", "w", "", "Default workspace ID (WS-XXX)")
	cmd.Flags().Bool("demo", false, "Seed the catalog with demo packages")

	return cmd
}

// initConfig writes the initial config.json, preserving an existing one.
func initConfig(actorID, role, workspace string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	// Already configured - don't clobber the existing identity
	if _, err := config.LoadConfig(home); err == nil {
		return nil
	}

	return config.SaveConfig(home, &config.Config{
		Version:          "1.0",
		ActorID:          actorID,
		Role:             role,
		DefaultWorkspace: workspace,
	})
}
