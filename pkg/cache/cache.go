// Package cache stores derived artifacts between pacdump runs. Its single
// consumer today is the reverse-dependency index, which is expensive to
// rebuild against large sync databases and trivially invalidated by a
// content key. Any read failure is a miss, never an error surfaced to the
// query path.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-blob store with TTL expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A zero ttl means no expiry; a negative ttl
	// stores an entry that is already expired.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}
