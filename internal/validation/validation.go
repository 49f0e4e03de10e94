// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules defined in struct tags
// and converts validation failures into the API's 400 error envelope.
package validation
