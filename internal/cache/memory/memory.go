// internal/cache/memory/memory.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/taskfence/taskfence/internal/cache"
	"github.com/taskfence/taskfence/internal/observability"
)

// StoreName is the registered name of the in-memory backend
const StoreName = "memory"

func init() {
	cache.Register(StoreName, newCache)
}

func newCache(ctx context.Context, options cache.Options, logger *observability.SLogger) (cache.KVCache, error) {
	cfg, ok := options.(*MemoryConfig)
	if !ok && options != nil {
		return nil, &cache.InvalidConfigurationError{Backend: StoreName, Config: options}
	}
	return New(cfg, logger)
}

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Cache is an in-process KVCache. It provides the same insert-if-absent
// atomicity a remote cache would, scoped to a single process. Useful for
// single-node deployments and as the reference backend in tests; the clock
// is injectable so expiry can be driven deterministically.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	prefix  string
	l       *observability.SLogger
	config  *MemoryConfig

	// now is the clock used for expiry decisions
	now func() time.Time
}

// New creates an in-memory cache backend
func New(config *MemoryConfig, logger *observability.SLogger) (*Cache, error) {
	if config == nil {
		config = NewMemoryConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Cache{
		entries: make(map[string]entry),
		prefix:  config.KeyPrefix,
		l:       logger,
		config:  config,
		now:     time.Now,
	}, nil
}

// GetConfig returns the current backend configuration
func (c *Cache) GetConfig() cache.Config {
	return c.config
}

// SetClock replaces the cache clock. Intended for tests that need to drive
// TTL expiry without sleeping.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// SetIfAbsent stores key -> value with ttl if the key is absent or its
// previous entry has expired
func (c *Cache) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	k := c.key(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[k]; ok {
		if existing.expiresAt.IsZero() || c.now().Before(existing.expiresAt) {
			return false, nil
		}
		// expired entry, treat as absent
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[k] = e

	return true, nil
}

// Delete removes key. Deleting an absent key succeeds.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, c.key(key))
	return nil
}

// Get returns the live value stored under key; used for ownership inspection.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[c.key(key)]
	if !ok {
		return "", cache.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		return "", cache.ErrKeyNotFound
	}
	return e.value, nil
}

// Close drops all entries
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
