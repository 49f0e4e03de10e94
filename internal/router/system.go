package router

import (
	"github.com/deppfellow/freight-agent-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of business
// logic. They sit behind the same API-key check as everything else.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Health status endpoint (used by monitors and load balancers).
	r.GET("/status", h.Health.CheckHealth)
}
