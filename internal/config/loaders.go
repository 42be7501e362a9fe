// internal/config/loaders.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/taskfence/taskfence/internal/cache/dynamodb"
	"github.com/taskfence/taskfence/internal/cache/memory"
	"github.com/taskfence/taskfence/internal/cache/redis"
	"github.com/taskfence/taskfence/internal/cache/scylladb"
	"gopkg.in/yaml.v3"
)

// RedisConfigLoader loads Redis backend configuration
func RedisConfigLoader(v *viper.Viper) (*redis.RedisConfig, error) {
	v.SetDefault("redisConfig.host", "localhost")
	v.SetDefault("redisConfig.port", 6379)
	v.SetDefault("redisConfig.db", 0)
	v.SetDefault("redisConfig.keyPrefix", "lock")

	config := redis.NewRedisConfig()
	if err := v.UnmarshalKey("redisConfig", config); err != nil {
		return nil, fmt.Errorf("unable to decode Redis config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Redis configuration: %w", err)
	}

	return config, nil
}

// DynamoConfigLoader loads DynamoDB backend configuration
func DynamoConfigLoader(v *viper.Viper) (*dynamodb.DynamoDBConfig, error) {
	v.SetDefault("dynamoDbConfig.region", "us-east-1")
	v.SetDefault("dynamoDbConfig.table", "taskfence_locks")

	config := dynamodb.NewDynamoDBConfig()
	if err := v.UnmarshalKey("dynamoDbConfig", config); err != nil {
		return nil, fmt.Errorf("unable to decode DynamoDB config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid DynamoDB configuration: %w", err)
	}

	return config, nil
}

// ScyllaConfigLoader loads ScyllaDB backend configuration
func ScyllaConfigLoader(v *viper.Viper) (*scylladb.ScyllaDBConfig, error) {
	v.SetDefault("scyllaDbConfig.host", "127.0.0.1")
	v.SetDefault("scyllaDbConfig.port", 9042)
	v.SetDefault("scyllaDbConfig.keyspace", "taskfence")
	v.SetDefault("scyllaDbConfig.table", "locks")
	v.SetDefault("scyllaDbConfig.consistency", "CONSISTENCY_QUORUM")

	config := scylladb.NewScyllaDBConfig()
	if err := v.UnmarshalKey("scyllaDbConfig", config); err != nil {
		return nil, fmt.Errorf("unable to decode ScyllaDB config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ScyllaDB configuration: %w", err)
	}

	return config, nil
}

// MemoryConfigLoader loads the in-memory backend configuration
func MemoryConfigLoader(v *viper.Viper) (*memory.MemoryConfig, error) {
	v.SetDefault("memoryConfig.keyPrefix", "lock")

	config := memory.NewMemoryConfig()
	if err := v.UnmarshalKey("memoryConfig", config); err != nil {
		return nil, fmt.Errorf("unable to decode memory config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid memory configuration: %w", err)
	}

	return config, nil
}

// DetectBackendType determines the backend type from the environment or the
// configuration file, before the typed config loader runs
func DetectBackendType(configPath string) (string, error) {
	if envType := os.Getenv("TASKFENCE_BACKEND_TYPE"); envType != "" {
		return normalizeBackendType(envType), nil
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("configuration file not found at %s", configPath)
		}
		return "", err
	}

	var configFile string
	if fileInfo.IsDir() {
		candidates := []string{
			filepath.Join(configPath, "config.yaml"),
			filepath.Join(configPath, "config.yml"),
			filepath.Join(configPath, "taskfence.yaml"),
			filepath.Join(configPath, "taskfence.yml"),
		}

		for _, candidate := range candidates {
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				configFile = candidate
				break
			}
		}

		if configFile == "" {
			return "", fmt.Errorf("no config file found in directory %s", configPath)
		}
	} else {
		configFile = configPath
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to read config file: %w", err)
	}

	var config RootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return "", fmt.Errorf("invalid configuration file: %w", err)
	}

	if config.Backend.Type == "" {
		return "", fmt.Errorf("backend type not specified in config")
	}

	return normalizeBackendType(config.Backend.Type), nil
}

func normalizeBackendType(backendType string) string {
	return strings.ToLower(strings.TrimSpace(backendType))
}
