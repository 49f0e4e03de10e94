// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the routes of each service,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/freight-agent-api/internal/handler"
	"github.com/deppfellow/freight-agent-api/internal/middleware"
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/deppfellow/freight-agent-api/internal/service"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// newRouter builds an Echo instance with the shared middleware stack.
//
// Order (outermost first): request ID, wildcard origin header, New Relic
// transaction, request logger context, tracing attributes, access log, panic
// recovery, API-key auth, rate limit, CORS, secure headers. Auth runs before routing results
// are acted on, so unknown paths answer 401 to unauthenticated callers.
func newRouter(s *server.Server, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s, services.Auth)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Pre(echoMiddleware.RemoveTrailingSlash())

	router.Use(
		middleware.RequestID(),
		middlewares.Global.AllowAnyOrigin(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Auth.RequireAPIKey,
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
	)

	return router
}

// NewLoadsRouter builds the load query service router.
//
//	GET /loads?reference_number=A,B&origin=X&destination=Y&equipment_type=Z
//	GET /status
func NewLoadsRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	router := newRouter(s, services)

	registerSystemRoutes(router, h)

	router.GET("/loads", handler.Handle(h.Loads.Handler, h.Loads.SearchLoads, http.StatusOK))

	return router
}

// NewCarriersRouter builds the carrier verification service router.
//
//	GET /carriers/:mc_number
//	GET /status
//
// "/carriers" without a number is routed to the same handler so it answers
// "Missing MC number" rather than an unknown endpoint.
func NewCarriersRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	router := newRouter(s, services)

	registerSystemRoutes(router, h)

	verify := handler.Handle(h.Carriers.Handler, h.Carriers.VerifyCarrier, http.StatusOK)

	carriers := router.Group("/carriers")
	carriers.GET("", verify)
	carriers.GET("/:mc_number", verify)

	return router
}
