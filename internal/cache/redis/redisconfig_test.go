// internal/cache/redis/redisconfig_test.go
package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisConfigDefaults(t *testing.T) {
	config := NewRedisConfig()

	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, 6379, config.Port)
	assert.Equal(t, "lock", config.KeyPrefix)
	require.NoError(t, config.Validate())
}

func TestRedisConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*RedisConfig)
		wantErr string
	}{
		{
			name:    "missing_host",
			modify:  func(c *RedisConfig) { c.Host = "" },
			wantErr: "host is required",
		},
		{
			name:    "port_too_low",
			modify:  func(c *RedisConfig) { c.Port = 0 },
			wantErr: "port must be between 1 and 65535",
		},
		{
			name:    "port_too_high",
			modify:  func(c *RedisConfig) { c.Port = 70000 },
			wantErr: "port must be between 1 and 65535",
		},
		{
			name:    "negative_db",
			modify:  func(c *RedisConfig) { c.DB = -1 },
			wantErr: "DB number must be non-negative",
		},
		{
			name:    "missing_prefix",
			modify:  func(c *RedisConfig) { c.KeyPrefix = "" },
			wantErr: "key prefix is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewRedisConfig()
			tt.modify(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRedisConfigClone(t *testing.T) {
	config := NewRedisConfig()
	config.Host = "redis.internal"

	clone := config.Clone()
	clone.Host = "elsewhere"

	assert.Equal(t, "redis.internal", config.Host)
}

func TestRedisConfigAccessors(t *testing.T) {
	config := NewRedisConfig()

	assert.Equal(t, "lock", config.GetNamespace())
	assert.Equal(t, []string{"localhost:6379"}, config.GetEndpoints())
	assert.Contains(t, config.String(), "RedisConfig{")
}
