package cache

import (
	"context"
	"time"
)

// Scoped prefixes every key before handing it to an inner cache. The CLI
// scopes by record format version so a format change starts from an empty
// namespace; the server scopes by deployment.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped wraps inner. A nil inner is a NullCache.
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get reads prefix+key from the inner cache.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set writes prefix+key to the inner cache.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes prefix+key from the inner cache.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner cache.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)
