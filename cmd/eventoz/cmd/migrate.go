package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Shivanand-hulikatti/eventoz/internal/config"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository/postgres"
	"github.com/spf13/cobra"
)

var (
	migrateDatabaseURL string
	migrateDownSteps   int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
	Long: `Apply or roll back the embedded postgres migrations.

The database is taken from --database-url, falling back to DATABASE_URL.
Only the postgres store uses migrations; mongodb indexes are created on
startup.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrateURL()
		if err != nil {
			return err
		}
		if err := postgres.MigrateUp(url); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrateURL()
		if err != nil {
			return err
		}
		if err := postgres.MigrateDown(url, migrateDownSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", migrateDownSteps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrateURL()
		if err != nil {
			return err
		}
		version, dirty, err := postgres.MigrationVersion(url)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrateDatabaseURL, "database-url", "", "postgres connection URL (default: $DATABASE_URL)")
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func migrateURL() (string, error) {
	if migrateDatabaseURL != "" {
		return migrateDatabaseURL, nil
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return "", err
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", errors.New("DATABASE_URL or --database-url is required")
	}
	return url, nil
}
