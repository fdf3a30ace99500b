package supabase

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single storage API request.
const DefaultTimeout = 5 * time.Minute

// Config holds Supabase Storage configuration.
type Config struct {
	// URL is the project URL, e.g. https://xyz.supabase.co.
	URL    string `yaml:"url" mapstructure:"url"`
	Bucket string `yaml:"bucket" mapstructure:"bucket"`

	// ServiceKey is the service-role key sent as a bearer token.
	ServiceKey string `yaml:"service_key" mapstructure:"service_key"`

	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks that the Supabase configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("supabase: url is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("supabase: bucket is required"))
	}
	if c.ServiceKey == "" {
		errs = append(errs, errors.New("supabase: service_key is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("supabase: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
