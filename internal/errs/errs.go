// Package errs defines the custom error types returned by the HTTP layer.
//
// Its purpose is to give every failure a single, predictable JSON shape
// ({"error", "status", "path", "details"}) so callers of the freight
// endpoints receive meaningful and consistent error messages, while the real
// cause stays in the server logs.
package errs
