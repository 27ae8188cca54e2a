// Package cache stores rendered exports keyed by document content.
//
// An export (SVG, PNG, DOT) depends only on the document's content and the
// export options, never on its id or timestamps, so [ContentHash] plus the
// options determine the key. Repeated exports of an unchanged document are
// served from the cache; any edit changes the hash.
//
// Implementations:
//   - [NullCache]: stores nothing, for tests or when caching is off
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance servers
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long exports stay cached when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
