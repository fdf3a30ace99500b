package local

// Config holds local filesystem storage configuration.
type Config struct {
	// Root overrides storage.Config.BasePath for this backend.
	Root string `yaml:"root" mapstructure:"root"`
}
