package forms

import (
	"fmt"

	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/storage"
	"github.com/kbukum/formkit/util"
	"github.com/kbukum/formkit/validation"
)

// Toggle is a per-field policy flag that can defer to Options.
type Toggle int

const (
	// Inherit uses the value from Options.
	Inherit Toggle = iota
	Enabled
	Disabled
)

// ToggleOf converts a bool to Enabled or Disabled.
func ToggleOf(v bool) Toggle {
	if v {
		return Enabled
	}
	return Disabled
}

// Resolve returns the toggle's value, or inherited when it is Inherit.
func (t Toggle) Resolve(inherited bool) bool {
	switch t {
	case Enabled:
		return true
	case Disabled:
		return false
	default:
		return inherited
	}
}

func (t Toggle) String() string {
	switch t {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "inherit"
	}
}

// Options is the process-wide upload configuration, read from the "forms"
// section. Unset booleans take their documented defaults.
type Options struct {
	// Backend names the backend used by fields without an explicit one.
	Backend string `yaml:"upload_backend" mapstructure:"upload_backend"`

	// UploadDir is the default root directory of the local backend.
	UploadDir string `yaml:"upload_dir" mapstructure:"upload_dir"`

	UUIDPrefixes  *bool `yaml:"upload_uuid_prefixes" mapstructure:"upload_uuid_prefixes"`
	KeepFilenames *bool `yaml:"upload_keep_filenames" mapstructure:"upload_keep_filenames"`
	Subfolders    *bool `yaml:"upload_subfolders" mapstructure:"upload_subfolders"`

	// AllowedExtensions is the default allow-set of the upload endpoint.
	AllowedExtensions []string `yaml:"allowed_extensions" mapstructure:"allowed_extensions" validate:"dive,required,excludes=/"`
}

// Default option values.
const (
	DefaultBackend       = storage.ProviderLocal
	DefaultUploadDir     = "uploads"
	DefaultUUIDPrefixes  = true
	DefaultKeepFilenames = true
	DefaultSubfolders    = false
)

// ApplyDefaults fills in unset options.
func (o *Options) ApplyDefaults() {
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}
	if o.UploadDir == "" {
		o.UploadDir = DefaultUploadDir
	}
	if o.UUIDPrefixes == nil {
		o.UUIDPrefixes = util.Ptr(DefaultUUIDPrefixes)
	}
	if o.KeepFilenames == nil {
		o.KeepFilenames = util.Ptr(DefaultKeepFilenames)
	}
	if o.Subfolders == nil {
		o.Subfolders = util.Ptr(DefaultSubfolders)
	}
}

// Validate checks the options against their validate tags.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o)
}

// Policy returns the filename policy defaults described by o.
func (o Options) Policy() Policy {
	return Policy{
		UUIDPrefix:   util.DerefOr(o.UUIDPrefixes, DefaultUUIDPrefixes),
		KeepFilename: util.DerefOr(o.KeepFilenames, DefaultKeepFilenames),
		Subfolders:   util.DerefOr(o.Subfolders, DefaultSubfolders),
	}
}

// Env carries what fields need from the host application.
type Env struct {
	Options  Options
	Backends storage.Resolver
	Log      *logger.Logger
}

func (e Env) logger() *logger.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logger.Get("forms")
}

// defaultRef is the backend used when a field or call does not name one.
func (e Env) defaultRef() storage.Ref {
	if e.Options.Backend != "" {
		return storage.Named(e.Options.Backend)
	}
	return storage.Ref{}
}

func (e Env) resolve(ref storage.Ref) (storage.Backend, error) {
	if ref.IsZero() {
		ref = e.defaultRef()
	}
	if b, ok := ref.Backend(); ok {
		return b, nil
	}
	if e.Backends == nil {
		return nil, fmt.Errorf("forms: no backend registry configured for %s", ref)
	}
	return e.Backends.Resolve(ref)
}
