// internal/cache/memory/memoryconfig.go
package memory

// MemoryConfig holds configuration for the in-memory backend
type MemoryConfig struct {
	KeyPrefix string `yaml:"keyPrefix"`
}

// NewMemoryConfig creates a memory configuration with default values
func NewMemoryConfig() *MemoryConfig {
	return &MemoryConfig{
		KeyPrefix: "lock",
	}
}

// Validate ensures the memory configuration is valid
func (c *MemoryConfig) Validate() error {
	// Any prefix, including an empty one, is usable
	return nil
}

// GetNamespace returns the key prefix locks live under
func (c *MemoryConfig) GetNamespace() string {
	return c.KeyPrefix
}

// GetEndpoints returns an empty list; the backend is in-process
func (c *MemoryConfig) GetEndpoints() []string {
	return nil
}

// Clone creates a copy of the memory configuration
func (c *MemoryConfig) Clone() *MemoryConfig {
	return &MemoryConfig{KeyPrefix: c.KeyPrefix}
}
