package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tablebell/restaurant-api/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate.Up(cfg.Database.URL)
	},
}

var downSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long:  `Rolls back the given number of migrations, or all of them when --steps is 0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate.Down(cfg.Database.URL, downSteps)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back (0 rolls back all)")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
