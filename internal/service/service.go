// Package service holds the load matching policy, carrier verification and
// API-key checks.
//
// Services receive already-bound queries from the handler layer and talk to
// repositories or the FMCSA client. Client-facing failures are returned as
// *errs.HTTPError; everything else is wrapped and left to the error handler.
package service
