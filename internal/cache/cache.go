// Package cache provides the small caching layer used for the public
// navigation projection. A memory backend is the default; Redis is used when
// configured so several instances share one invalidation.
package cache

import (
	"context"
	"time"
)

// Cache is the backend interface. Implementations must be safe for
// concurrent use. Values are []byte so memory and Redis behave identically.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrCacheMiss indicates the key was not found in cache or has expired.
const ErrCacheMiss Error = "cache miss"
