// internal/cache/cache.go
package cache

import (
	"context"
	"time"
)

// KVCache is the capability taskfence needs from a remote key-value cache.
// Implementations must guarantee that SetIfAbsent is atomic on the remote
// side: when several callers race on the same key, exactly one observes
// stored == true. The namespace (key prefix, table, keyspace) is fixed when
// the backend is constructed.
//
// A KVCache is safe for use by any number of concurrent callers. Correctness
// of the locks built on top comes entirely from the remote atomicity, never
// from local synchronization.
type KVCache interface {
	// SetIfAbsent atomically creates key -> value with the given TTL if the
	// key is absent. It returns (true, nil) when the entry was stored,
	// (false, nil) when the key already exists, and (false, err) when the
	// backend reported a failure or the request could not complete.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Delete removes key. Deleting an absent key is a no-op, not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend
	Close()

	// GetConfig returns the current backend configuration
	GetConfig() Config
}

// Config is the common surface of backend configurations
type Config interface {
	// GetNamespace returns the namespace locks live under (key prefix,
	// table name, or keyspace.table, depending on the backend)
	GetNamespace() string

	// GetEndpoints returns the backend endpoints
	GetEndpoints() []string

	// Validate checks the configuration for usability
	Validate() error
}
