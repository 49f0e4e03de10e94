package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/freight-agent-api/internal/middleware"
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler exposes a "system" endpoint that monitors and load balancers
// use to verify the service is alive and its dependencies are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult map[string]interface{}

// CheckHealth returns service status and dependency checks.
//
// The database is only checked when the service holds a pool (Postgres load
// source) and is required: a failed ping turns the response into a 503.
// Redis only backs the carrier cache, so a failed ping is reported but the
// service stays healthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"service":     h.server.Name,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true
	obs := h.server.Config.Observability

	if h.server.DB != nil && obs.HealthCheckEnabled("database") {
		result, err := h.probe(c.Request().Context(), func(ctx context.Context) error {
			return h.server.DB.Pool.Ping(ctx)
		})
		checks["database"] = result

		if err != nil {
			isHealthy = false
			h.reportFailure(logger, "database", result, err)
		} else {
			logger.Debug().Interface("result", result).Msg("database health check passed")
		}
	}

	if h.server.Redis != nil && obs.HealthCheckEnabled("redis") {
		result, err := h.probe(c.Request().Context(), func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		checks["redis"] = result

		if err != nil {
			h.reportFailure(logger, "redis", result, err)
		} else {
			logger.Debug().Interface("result", result).Msg("redis health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// probe runs ping under the configured per-check timeout.
func (h *HealthHandler) probe(parent context.Context, ping func(ctx context.Context) error) (checkResult, error) {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)

	result := checkResult{
		"status":        "healthy",
		"response_time": time.Since(start).String(),
	}
	// The cause is logged by reportFailure; the body only says which check failed.
	if err != nil {
		result["status"] = "unhealthy"
	}

	return result, err
}

func (h *HealthHandler) reportFailure(logger zerolog.Logger, check string, result checkResult, err error) {
	logger.Error().
		Err(err).
		Str("check", check).
		Interface("result", result).
		Msg("health check failed")

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
			"check_type":    check,
			"operation":     "health_check",
			"error_type":    check + "_unhealthy",
			"error_message": err.Error(),
		})
	}
}
