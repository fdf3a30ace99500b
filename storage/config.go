package storage

import (
	"fmt"
	"strings"
)

// Provider names of the bundled backends.
const (
	ProviderLocal    = "local"
	ProviderMemory   = "memory"
	ProviderS3       = "s3"
	ProviderSupabase = "supabase"
)

// Default configuration values.
const (
	DefaultProvider    = ProviderLocal
	DefaultBasePath    = "uploads"
	DefaultMaxFileSize = int64(32 << 20)
)

// Config holds settings shared by all backends. Provider-specific settings
// are registered separately with Registry.Configure.
type Config struct {
	// Provider is the backend used when a field does not name one.
	Provider string `yaml:"provider" mapstructure:"provider"`

	// BasePath is the root directory local backends fall back to.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`

	// MaxFileSize caps accepted uploads in bytes.
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size" validate:"gt=0"`

	// URLs builds application URLs for backends that serve through the
	// host, such as local.
	URLs URLBuilder `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
}

// Validate checks the shared settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider) == "" {
		return fmt.Errorf("storage: provider is required")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("storage: max_file_size must be positive (got: %d)", c.MaxFileSize)
	}
	return nil
}
