// internal/cache/registry.go
package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/taskfence/taskfence/internal/observability"
)

var (
	constructorsMu sync.RWMutex
	constructors   = make(map[string]Constructor)
)

// Options the raw type of the backend configurations.
type Options any

// Constructor is the signature of a cache backend constructor.
type Constructor func(ctx context.Context, options Options, logger *observability.SLogger) (KVCache, error)

// Register registers a new cache backend constructor.
// It panics if the constructor is nil or if it's called twice for the same name.
func Register(name string, cttr Constructor) {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()

	if cttr == nil {
		panic("taskfence: Register constructor is nil")
	}

	if _, dup := constructors[name]; dup {
		panic("taskfence: Register called twice for constructor " + name)
	}

	constructors[name] = cttr
}

// Unregister unregisters a cache backend constructor.
func Unregister(name string) {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()

	delete(constructors, name)
}

// Backends returns a sorted list of the names of the registered constructors.
func Backends() []string {
	constructorsMu.RLock()
	defer constructorsMu.RUnlock()

	list := make([]string, 0, len(constructors))
	for name := range constructors {
		list = append(list, name)
	}

	sort.Strings(list)

	return list
}

// New creates a new cache backend instance using the named constructor.
func New(ctx context.Context, name string, options Options, logger *observability.SLogger) (KVCache, error) {
	constructorsMu.RLock()
	construct, ok := constructors[name]
	constructorsMu.RUnlock()

	if !ok || construct == nil {
		return nil, &UnknownBackendError{Backend: name}
	}

	return construct(ctx, options, logger)
}
