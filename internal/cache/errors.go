// internal/cache/errors.go
package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReachable is returned when the backend cannot be reached for issuing cache operations.
	ErrNotReachable = errors.New("cache backend not reachable")
	// ErrKeyNotFound is returned when a key is not found in the cache during a read.
	ErrKeyNotFound = errors.New("key not found in cache")
)

// InvalidConfigurationError is returned when the type of the configuration is not supported by a backend.
type InvalidConfigurationError struct {
	Backend string
	Config  any
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid configuration type: %T", e.Backend, e.Config)
}

// UnknownBackendError is returned when a requested backend is not registered.
type UnknownBackendError struct {
	Backend string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown cache backend %q (forgotten import?)", e.Backend)
}
