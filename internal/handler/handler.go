// Package handler adapts HTTP requests to the service layer.
//
// Each endpoint declares a request struct that Echo binds from the path and
// query string. The struct validates itself, the typed handler calls one
// service method, and any error is left for the global error handler to
// render.
package handler
