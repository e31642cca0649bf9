package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/db"
)

// DevCmd returns the dev command with developer utilities
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Developer utilities",
		Hidden: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Populate the database with development fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Development fixtures seeded")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "db-path",
		Short: "Print the database path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := db.GetDBPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})

	return cmd
}
