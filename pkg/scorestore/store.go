// Package scorestore persists scores behind a small repository interface.
//
// Two implementations are provided: MemoryStore for tests and single
// process use, and MongoStore for durable storage. Both treat Put as an
// upsert keyed by the score ID and report absent scores with
// ErrCodeScoreNotFound so callers can distinguish "missing" from a
// backend failure.
package scorestore

import (
	"context"

	"github.com/notationkit/stave/pkg/score"
)

// Repository stores and retrieves scores by identifier.
type Repository interface {
	// Put inserts the score or replaces the stored version with the
	// same ID.
	Put(ctx context.Context, sc *score.Score) error

	// Get returns the score with the given ID, or an error carrying
	// ErrCodeScoreNotFound when no such score exists.
	Get(ctx context.Context, id string) (*score.Score, error)

	// Delete removes the score with the given ID, or returns an error
	// carrying ErrCodeScoreNotFound when no such score exists.
	Delete(ctx context.Context, id string) error

	// List returns every stored score ordered by ID.
	List(ctx context.Context) ([]*score.Score, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
