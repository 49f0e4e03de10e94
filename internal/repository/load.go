package repository

import (
	"context"

	"github.com/deppfellow/freight-agent-api/internal/model"
)

// LoadRepository looks up load records.
//
// Both methods return a non-nil slice; no match is an empty slice, not an
// error.
type LoadRepository interface {
	// FindByReferences returns every load whose reference number is in refs.
	// refs are expected to be normalized with model.NormalizeReference.
	FindByReferences(ctx context.Context, refs []string) ([]model.Load, error)

	// FindByLane returns loads running from origin to destination. An empty
	// equipment matches any equipment type.
	FindByLane(ctx context.Context, origin, destination, equipment string) ([]model.Load, error)
}
