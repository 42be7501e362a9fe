// internal/cache/scylladb/scylladbconfig_test.go
package scylladb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScyllaDBConfigDefaults(t *testing.T) {
	config := NewScyllaDBConfig()

	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, int32(9042), config.Port)
	assert.Equal(t, "taskfence", config.Keyspace)
	assert.Equal(t, "locks", config.Table)
	require.NoError(t, config.Validate())
}

func TestScyllaDBConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ScyllaDBConfig)
		wantErr string
	}{
		{
			name:    "missing_host",
			modify:  func(c *ScyllaDBConfig) { c.Host = "" },
			wantErr: "host is required",
		},
		{
			name:    "invalid_port",
			modify:  func(c *ScyllaDBConfig) { c.Port = 0 },
			wantErr: "port must be between 1 and 65535",
		},
		{
			name:    "missing_keyspace",
			modify:  func(c *ScyllaDBConfig) { c.Keyspace = "" },
			wantErr: "keyspace is required",
		},
		{
			name:    "missing_table",
			modify:  func(c *ScyllaDBConfig) { c.Table = "" },
			wantErr: "table is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewScyllaDBConfig()
			tt.modify(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScyllaDBConfigAccessors(t *testing.T) {
	config := NewScyllaDBConfig()

	assert.Equal(t, "taskfence.locks", config.GetNamespace())
	assert.Equal(t, []string{"localhost:9042"}, config.GetEndpoints())
	assert.Contains(t, config.String(), "ScyllaDBConfig{")
}

func TestParseConsistency(t *testing.T) {
	assert.Equal(t, "QUORUM", parseConsistency("CONSISTENCY_QUORUM").String())
	assert.Equal(t, "ONE", parseConsistency("CONSISTENCY_ONE").String())
	assert.Equal(t, "ALL", parseConsistency("CONSISTENCY_ALL").String())
	assert.Equal(t, "QUORUM", parseConsistency("bogus").String())
}
