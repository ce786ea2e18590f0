// Package cache stores rendered diagram artifacts.
//
// Rendering is the expensive step of a diagram build, and the DOT source
// fully determines its output, so artifacts are cached under a hash of the
// source and render options (see [ArtifactKey]). The CLI uses a [FileCache]
// under the XDG cache directory; the render server can share a [RedisCache]
// across instances; [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key-value store with expiration.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
