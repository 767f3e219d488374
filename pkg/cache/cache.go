// Package cache stores derived results, such as encoded feature vectors,
// between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [NullCache]: stores nothing, for disabled caching and tests
//
// Keys are built from a content hash of the design ([GraphHash]) plus the
// parameters of the derived value ([FeatureKey]), so editing a design or
// changing encoder settings never returns stale data.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/pcbgraph/pkg/observability"
)

// DefaultTTL is the expiry used when the configuration sets none.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetJSON reads key and decodes it into a T. An entry that no longer
// decodes is treated as a miss. Hits and misses are reported to the
// registered cache hooks under keyType.
func GetJSON[T any](ctx context.Context, c Cache, keyType, key string) (T, bool, error) {
	var v T
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return v, false, err
	}
	if !ok || json.Unmarshal(data, &v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return v, false, nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return v, true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, keyType, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
