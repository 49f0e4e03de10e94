package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("Invalid or missing API key"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad request", NewBadRequestError("Missing required parameters", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("Invalid endpoint: /nope"), http.StatusNotFound, "NOT_FOUND"},
		{"too many", NewTooManyRequestsError("Rate limit exceeded"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"unavailable", NewServiceUnavailableError("Carrier service unavailable"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestHTTPError_Envelope(t *testing.T) {
	err := NewBadRequestError("Missing required parameters", Details{
		"missing": []string{"origin"},
	}).WithPath("/loads?destination=DALLAS")

	raw, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "Missing required parameters", body["error"])
	assert.Equal(t, float64(400), body["status"])
	assert.Equal(t, "/loads?destination=DALLAS", body["path"])
	assert.Equal(t, map[string]any{"missing": []any{"origin"}}, body["details"])
	assert.NotContains(t, body, "code")
}

func TestHTTPError_DetailsOmittedWhenEmpty(t *testing.T) {
	raw, err := json.Marshal(NewUnauthorizedError("Invalid or missing API key"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "details")
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("verify: %w", NewServiceUnavailableError("Carrier service unavailable"))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestHTTPError_WithPathCopies(t *testing.T) {
	base := NewBadRequestError("Missing required parameters", Details{"missing": []string{"origin"}})
	bound := base.WithPath("/loads?destination=DALLAS")

	assert.Empty(t, base.Path)
	assert.Equal(t, "/loads?destination=DALLAS", bound.Path)
	assert.Equal(t, base.Message, bound.Message)
	assert.Equal(t, base.Details, bound.Details)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}

func TestNewHTTPError(t *testing.T) {
	err := NewHTTPError(http.StatusRequestEntityTooLarge, "Too big")
	assert.Equal(t, "REQUEST_ENTITY_TOO_LARGE", err.Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.Status)
	assert.Nil(t, err.Details)
}
