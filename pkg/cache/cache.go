// Package cache provides caching of Asana API responses.
//
// Three backends implement the Cache interface:
//   - FileCache: directory-based cache for normal CLI usage
//   - RedisCache: shared cache for serve deployments
//   - NullCache: no-op cache for --no-cache runs and tests
//
// Keys are arbitrary strings; backends hash them, so long keys are fine.
// Entries carry a TTL; expired entries behave like misses.
package cache

import (
	"context"
	"time"
)

// Cache stores raw response bytes keyed by string.
// Implementations must treat expired entries as misses.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
