// Package cache stores computed query results between runs.
//
// A [Cache] is a byte-oriented key/value store with per-entry TTLs. Three
// backends are provided:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for results reused across hosts
//
// Keys come from a [Keyer]. [DefaultKeyer] derives them from the graph
// fingerprint and every option that changes the result, so a stale entry is
// never returned for a different graph or query.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get returns the value for key and whether it was present.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLCount    = 30 * 24 * time.Hour
	TTLPageRank = 7 * 24 * time.Hour
)
