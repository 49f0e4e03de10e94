package main

import (
	"errors"

	"github.com/deppfellow/freight-agent-api/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Creates or upgrades the loads table in the database configured under database.*.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	if cfg.Database == nil {
		return errors.New("database config is required to run migrations")
	}

	if err := database.Migrate(cmd.Context(), &log, cfg); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}

	return nil
}
