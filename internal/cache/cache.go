package cache

import (
	"context"
	"time"
)

// Cache is the byte-level store shared by the memory and valkey backends
type Cache interface {
	// Get returns nil, nil for a missing key
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a zero expiration uses the backend default
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	// Delete removes key; a missing key is not an error
	Delete(ctx context.Context, key string) error
	// Exists reports whether key is present and unexpired
	Exists(ctx context.Context, key string) (bool, error)
	// Close releases the backend connection
	Close() error
	// Health pings the backend
	Health(ctx context.Context) error
}

// CacheError wraps a backend failure with the operation and key
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

// Error formats the operation, key and cause
func (e *CacheError) Error() string {
	return "cache " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

// Unwrap returns the backend error
func (e *CacheError) Unwrap() error {
	return e.Err
}
