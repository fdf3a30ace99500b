package main

import (
	"fmt"

	"github.com/kbukum/formkit/config"
	"github.com/kbukum/formkit/forms"
	"github.com/kbukum/formkit/observability"
	"github.com/kbukum/formkit/server"
	"github.com/kbukum/formkit/storage"
	"github.com/kbukum/formkit/storage/local"
	"github.com/kbukum/formkit/storage/s3"
	"github.com/kbukum/formkit/storage/supabase"
	"github.com/kbukum/formkit/validation"
)

const serviceName = "formkit"

// Config is the formkit service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server  server.Config        `yaml:"server" mapstructure:"server"`
	Storage StorageConfig        `yaml:"storage" mapstructure:"storage"`
	Forms   forms.Options        `yaml:"forms" mapstructure:"forms"`
	Tracing observability.Config `yaml:"tracing" mapstructure:"tracing"`
}

// StorageConfig is the shared storage section plus one section per provider.
type StorageConfig struct {
	storage.Config `yaml:",inline" mapstructure:",squash"`

	Local    local.Config    `yaml:"local" mapstructure:"local"`
	S3       s3.Config       `yaml:"s3" mapstructure:"s3"`
	Supabase supabase.Config `yaml:"supabase" mapstructure:"supabase"`
}

// ApplyDefaults fills unset values. forms.upload_backend and
// storage.provider default to each other, and forms.upload_dir supplies
// storage.base_path when it is unset.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Server.Debug = c.Debug

	if c.Storage.Provider == "" {
		c.Storage.Provider = c.Forms.Backend
	}
	if c.Storage.BasePath == "" {
		c.Storage.BasePath = c.Forms.UploadDir
	}
	c.Storage.Config.ApplyDefaults()
	if c.Forms.Backend == "" {
		c.Forms.Backend = c.Storage.Provider
	}
	if c.Forms.UploadDir == "" {
		c.Forms.UploadDir = c.Storage.BasePath
	}
	c.Forms.ApplyDefaults()

	switch c.Storage.Provider {
	case storage.ProviderS3:
		c.Storage.S3.ApplyDefaults()
	case storage.ProviderSupabase:
		c.Storage.Supabase.ApplyDefaults()
	}

	c.Tracing.ServiceName = c.Name
	c.Tracing.ServiceVersion = c.Version
	c.Tracing.Environment = c.Environment
	c.Tracing.ApplyDefaults()
}

// Validate checks every section. Provider sections are only checked for the
// selected provider.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Config.Validate(); err != nil {
		return err
	}
	switch c.Storage.Provider {
	case storage.ProviderS3:
		if err := c.Storage.S3.Validate(); err != nil {
			return fmt.Errorf("storage.s3: %w", err)
		}
	case storage.ProviderSupabase:
		if err := c.Storage.Supabase.Validate(); err != nil {
			return fmt.Errorf("storage.supabase: %w", err)
		}
	}
	if err := c.Forms.Validate(); err != nil {
		return err
	}
	return c.Tracing.Validate()
}

// loadConfig reads the config file, env file and FORMKIT_* variables.
func loadConfig(configFile, envFile string) (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
