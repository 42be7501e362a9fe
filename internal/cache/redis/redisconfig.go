// internal/cache/redis/redisconfig.go
package redis

import (
	"errors"
	"fmt"
	"strings"
)

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// NewRedisConfig creates a new Redis configuration with default values
func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:      "localhost",
		Port:      6379,
		Password:  "",
		DB:        0,
		KeyPrefix: "lock",
	}
}

// Validate ensures the Redis configuration is valid
func (c *RedisConfig) Validate() error {
	var errs []string

	if c.Host == "" {
		errs = append(errs, "host is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	if c.DB < 0 {
		errs = append(errs, "DB number must be non-negative")
	}

	if c.KeyPrefix == "" {
		errs = append(errs, "key prefix is required")
	}

	if len(errs) > 0 {
		return errors.New("cache validation failed: " + strings.Join(errs, "; "))
	}

	return nil
}

// String returns a string representation of the Redis configuration
func (c *RedisConfig) String() string {
	return fmt.Sprintf(
		"RedisConfig{Host: %s, Port: %d, DB: %d, KeyPrefix: %s}",
		c.Host,
		c.Port,
		c.DB,
		c.KeyPrefix,
	)
}

// Clone creates a deep copy of the Redis configuration
func (c *RedisConfig) Clone() *RedisConfig {
	clone := *c
	return &clone
}

// GetNamespace returns the key prefix locks live under
func (c *RedisConfig) GetNamespace() string {
	return c.KeyPrefix
}

// GetEndpoints returns the Redis endpoint
func (c *RedisConfig) GetEndpoints() []string {
	return []string{fmt.Sprintf("%s:%d", c.Host, c.Port)}
}
