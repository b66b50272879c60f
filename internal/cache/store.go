package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when the key has no entry.
var ErrNotFound = errors.New("cache entry not found")

// Store is a key/value backend for encoded entries.
type Store interface {
	// Get returns the entry for key, or an error for which
	// errors.Is(err, ErrNotFound) is true.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key. Entries are content addressed, so a store
	// may skip writing a key it already holds.
	Put(ctx context.Context, key string, value []byte) error
	// Close releases the backend.
	Close() error
}
