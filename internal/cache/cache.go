package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
	"github.com/SuramyaVimal/dag-cd/internal/export"
)

// Key returns the content address of source as read by a parser with the
// given fingerprint.
func Key(fingerprint, source string) string {
	d := xxhash.New()
	_, _ = d.WriteString(fingerprint)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(source)
	return fmt.Sprintf("%016x", d.Sum64())
}

// Cache stores export.Documents in a Store.
type Cache struct {
	store  Store
	hits   atomic.Int64
	misses atomic.Int64
}

// New returns a cache over store.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// Get returns the document cached under key. A document whose source differs
// from source counts as a miss, which guards against hash collisions.
// Store and decode failures are logged and reported as misses.
func (c *Cache) Get(ctx context.Context, key, source string) (*export.Document, bool) {
	logger := ctxlog.FromContext(ctx)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Cache lookup failed, treating as miss.", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	doc, err := export.Decode(data)
	if err != nil {
		logger.Warn("Discarding undecodable cache entry.", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	if doc.Source != source {
		logger.Warn("Cache key collision, treating as miss.", "key", key)
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	logger.Debug("Cache hit.", "key", key)
	return doc, true
}

// Put stores doc under key. Failures are logged and otherwise ignored.
func (c *Cache) Put(ctx context.Context, key string, doc *export.Document) {
	logger := ctxlog.FromContext(ctx)

	data, err := export.Encode(doc)
	if err != nil {
		logger.Warn("Could not encode cache entry.", "key", key, "error", err)
		return
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		logger.Warn("Could not store cache entry.", "key", key, "error", err)
		return
	}
	logger.Debug("Cache entry stored.", "key", key, "bytes", len(data))
}

// Stats returns the hit and miss counts since the cache was created.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
