// Package middleware holds the Echo middleware shared by both services and
// the global error handler that writes the error envelope.
package middleware
