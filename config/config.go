package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"wish.access_token":   "WISH_ACCESS_TOKEN",
	"wish.environment":    "WISH_ENVIRONMENT",
	"wish.merchant_id":    "WISH_MERCHANT_ID",
	"wish.base_url":       "WISH_BASE_URL",
	"oauth.client_id":     "WISH_CLIENT_ID",
	"oauth.client_secret": "WISH_CLIENT_SECRET",
	"oauth.redirect_uri":  "WISH_REDIRECT_URI",
	"logging.level":       "WISH_LOG_LEVEL",
}

// Load loads the configuration from file and environment. A .env file in
// the working directory is read first. Without an explicit path a missing
// config file is not an error, so the CLI can run from environment alone.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".wishctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/wishctl/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Wish defaults
	v.SetDefault("wish.environment", "prod")

	// Client defaults
	v.SetDefault("client.connect_timeout", "30s")
	v.SetDefault("client.page_size", 50)
	v.SetDefault("client.page_concurrency", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

var structValidator = newValidator()

// newValidator reports fields by their mapstructure keys
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	cfg.Wish.Environment = strings.ToLower(strings.TrimSpace(cfg.Wish.Environment))

	if err := structValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q validation (value %v)", configKey(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return err
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expr := range cfg.Filter.Presets {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("filter preset %q is empty", name)
		}
	}

	return nil
}

// configKey strips the root struct name from a validator namespace,
// leaving the dotted key users write in the config file.
func configKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// RequireToken reports whether the session has credentials for merchant calls
func (c *Config) RequireToken() error {
	if c.Wish.AccessToken == "" {
		return fmt.Errorf("wish.access_token must be set (or WISH_ACCESS_TOKEN)")
	}
	return nil
}

// RequireOAuth reports whether application credentials are configured
func (c *Config) RequireOAuth() error {
	if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
		return fmt.Errorf("oauth.client_id and oauth.client_secret must be set")
	}
	return nil
}
