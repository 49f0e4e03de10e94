package middleware

import (
	"time"

	"github.com/deppfellow/freight-agent-api/internal/errs"
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	// APIKeyHeader carries the caller's API key.
	APIKeyHeader = "X-API-Key"

	// APIKeyContextKey stores the authenticated key in Echo context; the rate
	// limiter buckets requests by it.
	APIKeyContextKey = "api_key"

	unauthorizedMessage = "Invalid or missing API key"
)

// KeyChecker decides whether an API key is allowed.
type KeyChecker interface {
	Authenticate(key string) bool
}

// AuthMiddleware holds the app Server so middleware can access shared deps
// like Logger and Config.
type AuthMiddleware struct {
	server *server.Server
	keys   KeyChecker
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server, keys KeyChecker) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		keys:   keys,
	}
}

// RequireAPIKey rejects every request whose X-API-Key header is missing or
// not in the allow-list with a 401, whatever its path or method.
//
// It is installed globally so unknown routes and the health endpoint are
// protected too.
func (auth *AuthMiddleware) RequireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		key := c.Request().Header.Get(APIKeyHeader)

		if !auth.keys.Authenticate(key) {
			GetLogger(c).Warn().
				Str("function", "RequireAPIKey").
				Bool("key_present", key != "").
				Dur("duration", time.Since(start)).
				Msg("api key rejected")

			return errs.NewUnauthorizedError(unauthorizedMessage)
		}

		c.Set(APIKeyContextKey, key)

		return next(c)
	}
}

// GetAPIKey returns the authenticated API key, or "" before authentication.
func GetAPIKey(c echo.Context) string {
	if key, ok := c.Get(APIKeyContextKey).(string); ok {
		return key
	}
	return ""
}
