// Package lib holds integrations that do not fit strictly into the layered
// packages.
//
// It contains the FMCSA registry client (fmcsa) and a small JSON cache on
// top of Redis (cache).
package lib
