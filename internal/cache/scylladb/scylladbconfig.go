// internal/cache/scylladb/scylladbconfig.go
package scylladb

import (
	"errors"
	"fmt"
	"strings"
)

// ScyllaDBConfig holds ScyllaDB-specific configuration
type ScyllaDBConfig struct {
	Host        string `yaml:"host"`
	Port        int32  `yaml:"port"`
	Keyspace    string `yaml:"keyspace"`
	Table       string `yaml:"table"`
	Consistency string `yaml:"consistency"`
}

// NewScyllaDBConfig creates a new ScyllaDB configuration with default values
func NewScyllaDBConfig() *ScyllaDBConfig {
	return &ScyllaDBConfig{
		Host:        "localhost",
		Port:        9042,
		Keyspace:    "taskfence",
		Table:       "locks",
		Consistency: "CONSISTENCY_QUORUM",
	}
}

// Validate ensures the ScyllaDB configuration is valid
func (c *ScyllaDBConfig) Validate() error {
	var errs []string

	if c.Host == "" {
		errs = append(errs, "host is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	if c.Keyspace == "" {
		errs = append(errs, "keyspace is required")
	}

	if c.Table == "" {
		errs = append(errs, "table is required")
	}

	if len(errs) > 0 {
		return errors.New("cache validation failed: " + strings.Join(errs, "; "))
	}

	return nil
}

// String returns a string representation of the ScyllaDB configuration
func (c *ScyllaDBConfig) String() string {
	return fmt.Sprintf(
		"ScyllaDBConfig{Host: %s, Port: %d, Keyspace: %s, Table: %s, Consistency: %s}",
		c.Host,
		c.Port,
		c.Keyspace,
		c.Table,
		c.Consistency,
	)
}

// Clone creates a copy of the ScyllaDB configuration
func (c *ScyllaDBConfig) Clone() *ScyllaDBConfig {
	clone := *c
	return &clone
}

// GetNamespace returns keyspace.table locks live in
func (c *ScyllaDBConfig) GetNamespace() string {
	return fmt.Sprintf("%s.%s", c.Keyspace, c.Table)
}

// GetEndpoints returns the ScyllaDB endpoint
func (c *ScyllaDBConfig) GetEndpoints() []string {
	return []string{fmt.Sprintf("%s:%d", c.Host, c.Port)}
}
