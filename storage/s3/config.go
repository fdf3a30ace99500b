package s3

import (
	"errors"
	"fmt"
	"time"
)

// Defaults for the S3 backend.
const (
	DefaultRegion        = "us-east-1"
	DefaultPresignExpiry = 7 * 24 * time.Hour
)

// Config holds S3-specific storage configuration.
type Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Region string `yaml:"region" mapstructure:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style"`

	// Prefix is prepended to every object key.
	Prefix string `yaml:"prefix" mapstructure:"prefix"`

	// PublicURL replaces the bucket URL in generated links, e.g. a CDN.
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`

	// PresignExpiry caps the lifetime of presigned URLs.
	PresignExpiry time.Duration `yaml:"presign_expiry" mapstructure:"presign_expiry"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.PresignExpiry <= 0 {
		c.PresignExpiry = DefaultPresignExpiry
	}
}

// Validate checks that the S3 configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("s3: bucket is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("s3: region is required"))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		errs = append(errs, errors.New("s3: access_key and secret_key must be set together"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("s3: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
