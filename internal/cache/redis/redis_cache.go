// internal/cache/redis/redis_cache.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskfence/taskfence/internal/cache"
	"github.com/taskfence/taskfence/internal/observability"
)

// Error definitions
var (
	ErrConfigOptionMissing = errors.New("Redis requires a config option")
)

// StoreName is the registered name of the Redis backend
const StoreName = "redis"

// redisClient defines the interface for Redis operations
// This allows for easier mocking in tests
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Factory function for creating Redis clients
// Can be replaced during tests for mocking
var newRedisClientFn = func(addr string, password string, db int) redisClient {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Register the Redis backend with the cache package
func init() {
	cache.Register(StoreName, newCache)
}

// newCache creates a new Redis backend instance from configuration
func newCache(ctx context.Context, options cache.Options, logger *observability.SLogger) (cache.KVCache, error) {
	cfg, ok := options.(*RedisConfig)
	if !ok && options != nil {
		return nil, &cache.InvalidConfigurationError{Backend: StoreName, Config: options}
	}
	return New(ctx, cfg, logger)
}

// Cache implements cache.KVCache on top of Redis
type Cache struct {
	client    redisClient
	l         *observability.SLogger
	keyPrefix string
	config    *RedisConfig
}

// GetConfig returns the current backend configuration
func (c *Cache) GetConfig() cache.Config {
	return c.config
}

// New creates a new Redis backend with the provided configuration
func New(ctx context.Context, config *RedisConfig, logger *observability.SLogger) (*Cache, error) {
	if config == nil {
		return nil, ErrConfigOptionMissing
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	client := newRedisClientFn(addr, config.Password, config.DB)

	// Test connection
	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Errorf("Error connecting to Redis: %v", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:    client,
		l:         logger,
		keyPrefix: config.KeyPrefix,
		config:    config,
	}, nil
}

// getKey generates a consistent namespaced key
func (c *Cache) getKey(key string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, key)
}

// SetIfAbsent atomically creates key -> value with ttl using SET NX.
// Redis guarantees the atomicity; no local coordination is involved.
func (c *Cache) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	stored, err := c.client.SetNX(ctx, c.getKey(key), value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX failed: %w", err)
	}
	return stored, nil
}

// Delete removes key. DEL of a missing key returns 0, which is a no-op here.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.client.Del(ctx, c.getKey(key)).Result(); err != nil {
		return fmt.Errorf("redis DEL failed: %w", err)
	}
	return nil
}

// Get returns the value stored under key; used for ownership inspection
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, c.getKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", cache.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis GET failed: %w", err)
	}
	return value, nil
}

// Close closes the Redis client connection
func (c *Cache) Close() {
	if err := c.client.Close(); err != nil {
		c.l.Errorf("Error closing Redis connection: %v", err)
	}
}
