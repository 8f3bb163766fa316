// Package cache defines the TTL memoization store and its errors.
package cache

import (
	"context"
	"time"
)

// Store provides key-value memoization with per-entry expiry. Lookups
// past an entry's deadline behave like misses; implementations must
// never expose a partially written value.
type Store interface {
	// Get returns the live value for key, or false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (any, bool)

	// Set stores value under key for ttl. An existing entry for the
	// same key is replaced whole (last writer wins).
	Set(ctx context.Context, key string, value any, ttl time.Duration)

	// Len reports the number of entries currently held, including any
	// not yet evicted expired ones.
	Len() int
}
