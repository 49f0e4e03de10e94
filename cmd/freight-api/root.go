package main

import (
	"github.com/deppfellow/freight-agent-api/internal/config"
	"github.com/deppfellow/freight-agent-api/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "freight-api",
	Short: "Load query and carrier verification services",
	Long: `freight-api serves the load board and the carrier verification API
used by the inbound carrier sales agent. Run one subcommand per service.`,
	SilenceUsage: true,
}

// bootstrap loads configuration and builds the logger pair shared by every
// subcommand.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Logger{}, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, loggerService, log, nil
}
