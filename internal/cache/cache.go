// Package cache holds public listing reads between admin mutations.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values by key. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns ErrMiss when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a zero ttl means the cache's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Error is the type of the sentinel errors below.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMiss   Error = "cache miss"
	ErrClosed Error = "cache closed"
)
