package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/freight-agent-api/internal/config"
	"github.com/deppfellow/freight-agent-api/internal/handler"
	"github.com/deppfellow/freight-agent-api/internal/repository"
	"github.com/deppfellow/freight-agent-api/internal/router"
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/deppfellow/freight-agent-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "Serve the load query API",
	Long: `Serves GET /loads backed by the CSV file at loads.csv_path or, with
loads.source=postgres, by the loads table.`,
	Args: cobra.NoArgs,
	RunE: runLoads,
}

var carriersCmd = &cobra.Command{
	Use:   "carriers",
	Short: "Serve the carrier verification API",
	Long: `Serves GET /carriers/:mc_number by looking the MC number up in the
FMCSA registry at fmcsa.base_url. Definitive answers are cached in Redis when
redis.address is set.`,
	Args: cobra.NoArgs,
	RunE: runCarriers,
}

func init() {
	rootCmd.AddCommand(loadsCmd, carriersCmd)
}

type routerFunc func(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo

func runLoads(cmd *cobra.Command, _ []string) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}

	var opts []server.Option
	if cfg.Loads.Source == config.LoadSourcePostgres {
		opts = append(opts, server.WithDatabase())
	}

	s, err := server.New("loads", cfg, &log, loggerService, opts...)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos, err := repository.NewRepositories(s)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize repositories")
		return err
	}

	return serve(cmd.Context(), s, repos, router.NewLoadsRouter)
}

func runCarriers(cmd *cobra.Command, _ []string) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}

	if cfg.FMCSA.BaseURL == "" {
		return errors.New("fmcsa.base_url is required for the carrier service")
	}

	s, err := server.New("carriers", cfg, &log, loggerService, server.WithRedis())
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	return serve(cmd.Context(), s, nil, router.NewCarriersRouter)
}

// serve wires the layers, starts the HTTP server and blocks until SIGINT or
// SIGTERM, then shuts down within shutdownTimeout.
func serve(parent context.Context, s *server.Server, repos *repository.Repositories, newRouter routerFunc) error {
	services, err := service.NewServices(s, repos)
	if err != nil {
		s.Logger.Error().Err(err).Msg("failed to create services")
		return err
	}

	if services.Auth.Len() == 0 {
		return errors.New("auth.api_keys must contain at least one key")
	}

	handlers := handler.NewHandlers(s, services)
	s.SetupHTTPServer(newRouter(s, handlers, services))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			s.Logger.Error().Err(err).Msg("server stopped unexpectedly")
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	s.Logger.Info().Msg("server exited properly")
	return nil
}
