package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Wish    WishConfig    `mapstructure:"wish"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Client  ClientConfig  `mapstructure:"client"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// WishConfig holds the merchant session details
type WishConfig struct {
	AccessToken string `mapstructure:"access_token"`
	Environment string `mapstructure:"environment" validate:"required,oneof=prod production sandbox stage"`
	MerchantID  string `mapstructure:"merchant_id"`
	// BaseURL overrides the API base path of the selected environment
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// OAuthConfig holds the application credentials used for token exchanges
type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri" validate:"omitempty,url"`
}

// ClientConfig tunes the HTTP client
type ClientConfig struct {
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	PageSize        int           `mapstructure:"page_size" validate:"gte=1,lte=500"`
	PageConcurrency int           `mapstructure:"page_concurrency" validate:"gte=1,lte=10"`
	UserAgent       string        `mapstructure:"user_agent"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
