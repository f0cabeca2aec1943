// Package cache abstracts the TTL key-value cache in front of the
// document store. Implementations must be safe for concurrent use and
// should degrade gracefully: callers treat any error as a signal to fall
// back to the store, never as a request failure.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when a key does not exist or has expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is a key-value cache with TTL support. Values are opaque byte
// slices; encoding is the caller's concern.
type Cache interface {
	// Get retrieves the value for key, ErrCacheMiss if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A zero TTL stores
	// the entry without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix. Best effort:
	// used to sweep listing pages after a write.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Ping verifies connectivity to the backend.
	Ping(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}
