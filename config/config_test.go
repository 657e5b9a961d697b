package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Wish: WishConfig{
			AccessToken: "token",
			Environment: "sandbox",
		},
		Client: ClientConfig{
			ConnectTimeout:  30 * time.Second,
			PageSize:        50,
			PageConcurrency: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "environment is normalized",
			mutate:  func(c *Config) { c.Wish.Environment = " STAGE " },
			wantErr: false,
		},
		{
			name:        "unknown environment",
			mutate:      func(c *Config) { c.Wish.Environment = "qa" },
			wantErr:     true,
			errContains: "wish.environment",
		},
		{
			name:        "bad base url",
			mutate:      func(c *Config) { c.Wish.BaseURL = "not a url" },
			wantErr:     true,
			errContains: "wish.base_url",
		},
		{
			name:        "page size too large",
			mutate:      func(c *Config) { c.Client.PageSize = 1000 },
			wantErr:     true,
			errContains: "client.page_size",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			wantErr:     true,
			errContains: "invalid logging level",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			wantErr:     true,
			errContains: "invalid logging format",
		},
		{
			name:        "empty preset",
			mutate:      func(c *Config) { c.Filter.Presets = map[string]string{"late": " "} },
			wantErr:     true,
			errContains: `filter preset "late"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
wish:
  access_token: file-token
  environment: sandbox
  merchant_id: m-1
client:
  connect_timeout: 5s
  page_concurrency: 4
filter:
  presets:
    unshipped: State == "APPROVED"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Wish.AccessToken)
	assert.Equal(t, "sandbox", cfg.Wish.Environment)
	assert.Equal(t, "m-1", cfg.Wish.MerchantID)
	assert.Equal(t, 5*time.Second, cfg.Client.ConnectTimeout)
	assert.Equal(t, 50, cfg.Client.PageSize)
	assert.Equal(t, 4, cfg.Client.PageConcurrency)
	assert.Equal(t, `State == "APPROVED"`, cfg.Filter.Presets["unshipped"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wish:\n  access_token: file-token\n"), 0o600))

	t.Setenv("WISH_ACCESS_TOKEN", "env-token")
	t.Setenv("WISH_ENVIRONMENT", "stage")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Wish.AccessToken)
	assert.Equal(t, "stage", cfg.Wish.Environment)
	assert.NoError(t, cfg.RequireToken())
	assert.Error(t, cfg.RequireOAuth())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "wish.base_url", configKey("Config.wish.base_url"))
	assert.Equal(t, "page_size", configKey("page_size"))
}
