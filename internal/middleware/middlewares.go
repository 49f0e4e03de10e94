package middleware

import (
	"github.com/deppfellow/freight-agent-api/internal/server"
)

// Middlewares is a lightweight container that groups all middleware components
// used by the HTTP server, built once and reused during router setup.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers, and the
	// global error handler.
	Global *GlobalMiddlewares

	// Auth enforces the X-API-Key allow-list.
	Auth *AuthMiddleware

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit throttles callers per API key.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components.
//
// When New Relic is not configured the tracing middleware degrades into a
// no-op.
func NewMiddlewares(s *server.Server, keys KeyChecker) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s, keys),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
