// internal/cache/redis/redis_test.go
package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskfence/taskfence/internal/cache"
	"github.com/taskfence/taskfence/internal/observability"
)

func setupMiniredis(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	logger, _, err := observability.NewTestLogger()
	require.NoError(t, err)

	config := NewRedisConfig()
	config.Host = mr.Host()
	config.Port = port

	c, err := New(context.Background(), config, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c, mr
}

func TestSetIfAbsent(t *testing.T) {
	c, mr := setupMiniredis(t)
	ctx := context.Background()

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	// The entry landed under the namespaced key with its TTL
	value, err := mr.Get("lock:job")
	require.NoError(t, err)
	assert.Equal(t, "host-a", value)
	assert.Equal(t, time.Minute, mr.TTL("lock:job"))

	// Second insert is rejected and does not overwrite the owner
	stored, err = c.SetIfAbsent(ctx, "job", "host-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)

	value, err = mr.Get("lock:job")
	require.NoError(t, err)
	assert.Equal(t, "host-a", value)
}

func TestSetIfAbsentAfterExpiry(t *testing.T) {
	c, mr := setupMiniredis(t)
	ctx := context.Background()

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", 30*time.Second)
	require.NoError(t, err)
	require.True(t, stored)

	mr.FastForward(31 * time.Second)

	stored, err = c.SetIfAbsent(ctx, "job", "host-b", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, stored, "an expired entry must not block a new insert")
}

func TestDelete(t *testing.T) {
	c, mr := setupMiniredis(t)
	ctx := context.Background()

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", time.Minute)
	require.NoError(t, err)
	require.True(t, stored)

	require.NoError(t, c.Delete(ctx, "job"))
	assert.False(t, mr.Exists("lock:job"))

	// Deleting an absent key succeeds
	assert.NoError(t, c.Delete(ctx, "job"))
}

func TestGet(t *testing.T) {
	c, _ := setupMiniredis(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "job")
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", time.Minute)
	require.NoError(t, err)
	require.True(t, stored)

	value, err := c.Get(ctx, "job")
	require.NoError(t, err)
	assert.Equal(t, "host-a", value)
}

func TestNewConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	logger, _, err := observability.NewTestLogger()
	require.NoError(t, err)

	config := NewRedisConfig()
	config.Host = addr
	config.Port = port

	_, err = New(context.Background(), config, logger)
	assert.Error(t, err)
}

func TestNewNilConfig(t *testing.T) {
	logger, _, err := observability.NewTestLogger()
	require.NoError(t, err)

	_, err = New(context.Background(), nil, logger)
	assert.ErrorIs(t, err, ErrConfigOptionMissing)
}

func setupMockCache(t *testing.T) (*Cache, *MockRedisClient) {
	t.Helper()

	logger, _, err := observability.NewTestLogger()
	require.NoError(t, err)

	mockClient := new(MockRedisClient)
	c := &Cache{
		client:    mockClient,
		l:         logger,
		keyPrefix: "lock",
		config:    NewRedisConfig(),
	}
	return c, mockClient
}

func TestSetIfAbsentBackendError(t *testing.T) {
	c, mockClient := setupMockCache(t)
	ctx := context.Background()

	boolCmd := redis.NewBoolCmd(ctx)
	boolCmd.SetErr(errors.New("READONLY You can't write against a read only replica"))
	mockClient.On("SetNX", ctx, "lock:job", "host-a", time.Minute).Return(boolCmd)

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", time.Minute)
	assert.False(t, stored)
	assert.Error(t, err)
	mockClient.AssertExpectations(t)
}

func TestDeleteBackendError(t *testing.T) {
	c, mockClient := setupMockCache(t)
	ctx := context.Background()

	intCmd := redis.NewIntCmd(ctx)
	intCmd.SetErr(errors.New("connection refused"))
	mockClient.On("Del", ctx, []string{"lock:job"}).Return(intCmd)

	err := c.Delete(ctx, "job")
	assert.Error(t, err)
	mockClient.AssertExpectations(t)
}
