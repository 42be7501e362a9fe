// internal/cache/scylladb/scylladb_test.go
package scylladb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskfence/taskfence/internal/observability"
)

func setupMockCache(t *testing.T) (*Cache, *MockSession) {
	t.Helper()

	logger, _, err := observability.NewTestLogger()
	require.NoError(t, err)

	config := NewScyllaDBConfig()
	mockSession := new(MockSession)

	c := &Cache{
		session:       mockSession,
		tableName:     config.Table,
		keyspaceName:  config.Keyspace,
		fullTableName: fmt.Sprintf("%q.%q", config.Keyspace, config.Table),
		l:             logger,
		config:        config,
	}
	c.initQueries()

	return c, mockSession
}

func TestInitQueries(t *testing.T) {
	c, _ := setupMockCache(t)

	assert.Equal(t,
		`INSERT INTO "taskfence"."locks" (name, owner) VALUES (?, ?) IF NOT EXISTS USING TTL ?`,
		c.insertQuery)
	assert.Equal(t,
		`DELETE FROM "taskfence"."locks" WHERE name = ?`,
		c.deleteQuery)
}

func TestSetIfAbsentStored(t *testing.T) {
	c, mockSession := setupMockCache(t)
	ctx := context.Background()

	query := new(MockQuery)
	query.On("WithContext", ctx).Return(query)
	query.On("ScanCAS", mock.Anything).Return(true, nil)
	mockSession.On("Query", c.insertQuery, []interface{}{"job", "host-a", 60}).Return(query)

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
	mockSession.AssertExpectations(t)
}

func TestSetIfAbsentHeld(t *testing.T) {
	c, mockSession := setupMockCache(t)
	ctx := context.Background()

	// CAS not applied: the row exists, which is contention, not an error
	query := new(MockQuery)
	query.On("WithContext", ctx).Return(query)
	query.On("ScanCAS", mock.Anything).Return(false, nil)
	mockSession.On("Query", c.insertQuery, mock.Anything).Return(query)

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestSetIfAbsentBackendError(t *testing.T) {
	c, mockSession := setupMockCache(t)
	ctx := context.Background()

	cause := errors.New("no hosts available")
	query := new(MockQuery)
	query.On("WithContext", ctx).Return(query)
	query.On("ScanCAS", mock.Anything).Return(false, cause)
	mockSession.On("Query", c.insertQuery, mock.Anything).Return(query)

	stored, err := c.SetIfAbsent(ctx, "job", "host-a", time.Minute)
	assert.False(t, stored)
	assert.ErrorIs(t, err, cause)
}

func TestSetIfAbsentTTLSeconds(t *testing.T) {
	// Sub-second TTLs round up so they never truncate to zero
	assert.Equal(t, 1, ttlSeconds(200*time.Millisecond))
	assert.Equal(t, 30, ttlSeconds(30*time.Second))
	assert.Equal(t, 31, ttlSeconds(30*time.Second+time.Millisecond))
}

func TestDelete(t *testing.T) {
	c, mockSession := setupMockCache(t)
	ctx := context.Background()

	query := new(MockQuery)
	query.On("WithContext", ctx).Return(query)
	query.On("Exec").Return(nil)
	mockSession.On("Query", c.deleteQuery, []interface{}{"job"}).Return(query)

	assert.NoError(t, c.Delete(ctx, "job"))
	mockSession.AssertExpectations(t)
}

func TestDeleteBackendError(t *testing.T) {
	c, mockSession := setupMockCache(t)
	ctx := context.Background()

	cause := errors.New("write timeout")
	query := new(MockQuery)
	query.On("WithContext", ctx).Return(query)
	query.On("Exec").Return(cause)
	mockSession.On("Query", c.deleteQuery, mock.Anything).Return(query)

	assert.ErrorIs(t, c.Delete(ctx, "job"), cause)
}

func TestClose(t *testing.T) {
	c, mockSession := setupMockCache(t)

	mockSession.On("Close").Return()
	c.Close()
	mockSession.AssertExpectations(t)
}

func TestNewNilConfig(t *testing.T) {
	logger, _, err := observability.NewTestLogger()
	require.NoError(t, err)

	_, err = New(context.Background(), nil, logger)
	assert.ErrorIs(t, err, ErrConfigOptionMissing)
}
