// internal/cache/dynamodb/dynamodbconfig.go
package dynamodb

import (
	"errors"
	"fmt"
	"strings"
)

// DynamoDBConfig holds DynamoDB-specific configuration
type DynamoDBConfig struct {
	Region          string   `yaml:"region"`
	Table           string   `yaml:"table"`
	Endpoints       []string `yaml:"endpoints"`
	AccessKeyID     string   `yaml:"accessKeyId"`
	SecretAccessKey string   `yaml:"secretAccessKey"`
}

// NewDynamoDBConfig creates a new DynamoDB configuration with default values
func NewDynamoDBConfig() *DynamoDBConfig {
	return &DynamoDBConfig{
		Region: "us-east-1",
		Table:  "taskfence_locks",
	}
}

// Validate ensures the DynamoDB configuration is valid
func (c *DynamoDBConfig) Validate() error {
	var errs []string

	if c.Region == "" {
		errs = append(errs, "region is required")
	}

	if c.Table == "" {
		errs = append(errs, "table is required")
	}

	for i, endpoint := range c.Endpoints {
		if endpoint == "" {
			errs = append(errs, fmt.Sprintf("endpoint %d: address cannot be empty", i))
		}
	}

	if len(errs) > 0 {
		return errors.New("cache validation failed: " + strings.Join(errs, "; "))
	}

	return nil
}

// String returns a string representation of the DynamoDB configuration
func (c *DynamoDBConfig) String() string {
	return fmt.Sprintf(
		"DynamoDBConfig{Region: %s, Table: %s, Endpoints: %v}",
		c.Region,
		c.Table,
		c.Endpoints,
	)
}

// Clone creates a deep copy of the DynamoDB configuration
func (c *DynamoDBConfig) Clone() *DynamoDBConfig {
	endpoints := make([]string, len(c.Endpoints))
	copy(endpoints, c.Endpoints)

	clone := *c
	clone.Endpoints = endpoints
	return &clone
}

// GetNamespace returns the table locks live in
func (c *DynamoDBConfig) GetNamespace() string {
	return c.Table
}

// GetEndpoints returns the configured endpoints
func (c *DynamoDBConfig) GetEndpoints() []string {
	return c.Endpoints
}
