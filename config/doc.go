// Package config loads service configuration with Viper.
//
// Values come from, in increasing priority: a YAML file, a .env file loaded
// with godotenv, and process environment variables. Every key reachable
// through mapstructure tags of the target struct can be overridden by an
// environment variable named PREFIX_SECTION_KEY, for example
// FORMKIT_FORMS_UPLOAD_DIR for forms.upload_dir.
//
//	var cfg Config
//	if err := config.LoadConfig("formkit", &cfg); err != nil {
//	    return err
//	}
package config
