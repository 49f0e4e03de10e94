// Package repository handles all interactions with the load store.
//
// It hides where load records live (an immutable CSV snapshot or the
// PostgreSQL loads table) behind LoadRepository, so the service layer only
// expresses the matching policy.
package repository
