package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/config"
	"github.com/example/stagetrack/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the stagetrack database",
		Long:  `Initialize the stagetrack database at ~/.stagetrack/stagetrack.db with the required schema and the built-in stage catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing stagetrack database at %s\n", dbPath)

			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			actor, _ := cmd.Flags().GetString("actor")
			role, _ := cmd.Flags().GetString("role")
			if actor != "" {
				if err := writeConfig(actor, role); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Printf("✓ Config written for %s (%s)\n", actor, role)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  stagetrack project create \"My First Project\"")
			fmt.Println("  stagetrack status")

			return nil
		},
	}

	cmd.Flags().String("actor", "", "Actor ID recorded on requests and decisions")
	cmd.Flags().String("role", config.RoleSubmitter, "Role (SUBMITTER|APPROVER|ADMIN)")

	return cmd
}

// writeConfig persists the actor identity to ~/.stagetrack/config.json
func writeConfig(actor, role string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return config.SaveConfig(home, &config.Config{
		Version: "1",
		ActorID: actor,
		Role:    role,
	})
}
