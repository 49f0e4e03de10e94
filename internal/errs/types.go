package errs

import (
	"net/http"
)

func newHTTPError(status int, message string, details Details) *HTTPError {
	return &HTTPError{
		// http.StatusText(401) => "Unauthorized" => "UNAUTHORIZED"
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
		Details: details,
	}
}

// NewHTTPError creates an HTTPError for any status, e.g. when translating
// framework errors that have no dedicated constructor.
func NewHTTPError(status int, message string) *HTTPError {
	return newHTTPError(status, message, nil)
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
func NewUnauthorizedError(message string) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, message, nil)
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// details is optional structured context such as the list of missing
// parameters.
func NewBadRequestError(message string, details Details) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, nil)
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError(message string) *HTTPError {
	return newHTTPError(http.StatusMethodNotAllowed, message, nil)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, nil)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is always the generic status text, never the real cause.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, "Internal server error", nil)
}

// NewServiceUnavailableError creates a 503 Service Unavailable HTTPError.
//
// Used when an upstream dependency (the carrier registry) cannot answer.
func NewServiceUnavailableError(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message, nil)
}
