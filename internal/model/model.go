// Package model holds the domain records shared by the repository, service
// and handler layers.
package model
