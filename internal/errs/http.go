package errs

import "strings"

// Details carries structured, endpoint-specific context for an error, e.g.
//
//	{ "missing": ["origin", "destination"] }
//	{ "expected": "6 digits", "received": "12AB" }
type Details map[string]any

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error() and is serialized directly
// as the response envelope:
//   - Message: human-friendly message (JSON "error").
//   - Status: HTTP status code.
//   - Path: request path, filled in by the global error handler.
//   - Details: optional structured context.
//
// Code is a machine-friendly error code (e.g. "BAD_REQUEST") used for logs
// and tracing only; it is not part of the wire format.
type HTTPError struct {
	Code    string  `json:"-"`
	Message string  `json:"error"`
	Status  int     `json:"status"`
	Path    string  `json:"path"`
	Details Details `json:"details,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It does NOT compare Code/Status; it only checks the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithPath returns a copy of this HTTPError bound to the request path.
func (e *HTTPError) WithPath(path string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Path:    path,
		Details: e.Details,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
