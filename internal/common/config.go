// Package common provides shared utilities for stockdeck
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for stockdeck
type Config struct {
	Environment string          `toml:"environment"`
	Backend     BackendConfig   `toml:"backend"`
	Auth        AuthConfig      `toml:"auth"`
	Dashboard   DashboardConfig `toml:"dashboard"`
	Logging     LoggingConfig   `toml:"logging"`
}

// BackendConfig holds backend API client configuration
type BackendConfig struct {
	BaseURL    string `toml:"base_url"`
	Timeout    string `toml:"timeout"`
	RateLimit  int    `toml:"rate_limit"`
	MaxRetries int    `toml:"max_retries"`
	RetryBase  string `toml:"retry_base"` // base backoff delay, doubles per attempt
}

// GetTimeout parses and returns the HTTP timeout duration
func (c *BackendConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetRetryBase parses and returns the base retry backoff delay
func (c *BackendConfig) GetRetryBase() time.Duration {
	d, err := time.ParseDuration(c.RetryBase)
	if err != nil {
		return 1 * time.Second
	}
	return d
}

// AuthConfig holds auth provider configuration
type AuthConfig struct {
	URL              string `toml:"url"`      // provider base URL, e.g. https://<project>.supabase.co/auth/v1
	AnonKey          string `toml:"anon_key"` // public API key sent with every provider request
	Timeout          string `toml:"timeout"`
	OAuthRedirectURL string `toml:"oauth_redirect_url"`    // post-auth landing target
	ResetRedirectURL string `toml:"reset_redirect_url"`    // password-reset email link target
	MinPasswordLen   int    `toml:"min_password_length"`   // client-side validation floor
	ResetCooldown    string `toml:"reset_resend_cooldown"` // resend cooldown for password reset requests
}

// GetTimeout parses and returns the provider timeout duration
func (c *AuthConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetResetCooldown parses and returns the reset resend cooldown
func (c *AuthConfig) GetResetCooldown() time.Duration {
	d, err := time.ParseDuration(c.ResetCooldown)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// DashboardConfig holds controller cadence and cache configuration
type DashboardConfig struct {
	AutoRefreshInterval string `toml:"auto_refresh_interval"` // market data refresh cadence
	CacheTimeout        string `toml:"cache_timeout"`         // staleness window for cached resources
	ActivityWindow      string `toml:"activity_window"`       // refresh only if user activity within this window
	NewsLimit           int    `toml:"news_limit"`            // news page size
	DebounceDelay       string `toml:"debounce_delay"`        // search input quiet period
	SearchCacheSize     int    `toml:"search_cache_size"`     // bounded search cache capacity
	ExchangeTimezone    string `toml:"exchange_timezone"`     // market clock time zone
}

// GetAutoRefreshInterval parses and returns the auto-refresh interval
func (c *DashboardConfig) GetAutoRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.AutoRefreshInterval)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCacheTimeout parses and returns the staleness window
func (c *DashboardConfig) GetCacheTimeout() time.Duration {
	d, err := time.ParseDuration(c.CacheTimeout)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetActivityWindow parses and returns the user-activity window
func (c *DashboardConfig) GetActivityWindow() time.Duration {
	d, err := time.ParseDuration(c.ActivityWindow)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetDebounceDelay parses and returns the search debounce delay
func (c *DashboardConfig) GetDebounceDelay() time.Duration {
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// GetNewsLimit returns the news page size
func (c *DashboardConfig) GetNewsLimit() int {
	if c.NewsLimit <= 0 {
		return 10
	}
	return c.NewsLimit
}

// GetExchangeTimezone returns the market clock time zone
func (c *DashboardConfig) GetExchangeTimezone() string {
	if c.ExchangeTimezone == "" {
		return "Asia/Kolkata"
	}
	return c.ExchangeTimezone
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Backend: BackendConfig{
			BaseURL:    "http://localhost:5001/api",
			Timeout:    "30s",
			RateLimit:  10,
			MaxRetries: 3,
			RetryBase:  "1s",
		},
		Auth: AuthConfig{
			Timeout:          "15s",
			OAuthRedirectURL: "stockdeck://auth/callback",
			ResetRedirectURL: "stockdeck://auth/update-password",
			MinPasswordLen:   6,
			ResetCooldown:    "60s",
		},
		Dashboard: DashboardConfig{
			AutoRefreshInterval: "30s",
			CacheTimeout:        "5m",
			ActivityWindow:      "5m",
			NewsLimit:           10,
			DebounceDelay:       "300ms",
			SearchCacheSize:     128,
			ExchangeTimezone:    "Asia/Kolkata",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKDECK_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("STOCKDECK_BACKEND_URL"); url != "" {
		config.Backend.BaseURL = url
	}

	if v := os.Getenv("STOCKDECK_BACKEND_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Backend.MaxRetries = n
		}
	}

	if url := os.Getenv("STOCKDECK_AUTH_URL"); url != "" {
		config.Auth.URL = url
	}

	if key := os.Getenv("STOCKDECK_AUTH_ANON_KEY"); key != "" {
		config.Auth.AnonKey = key
	}

	if v := os.Getenv("STOCKDECK_CACHE_TIMEOUT"); v != "" {
		config.Dashboard.CacheTimeout = v
	}

	if v := os.Getenv("STOCKDECK_REFRESH_INTERVAL"); v != "" {
		config.Dashboard.AutoRefreshInterval = v
	}

	if tz := os.Getenv("STOCKDECK_EXCHANGE_TZ"); tz != "" {
		config.Dashboard.ExchangeTimezone = tz
	}

	if level := os.Getenv("STOCKDECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ValidateRequired returns the names of required settings that are missing.
func (c *Config) ValidateRequired() []string {
	var missing []string
	if strings.TrimSpace(c.Auth.URL) == "" {
		missing = append(missing, "auth.url")
	}
	if strings.TrimSpace(c.Auth.AnonKey) == "" {
		missing = append(missing, "auth.anon_key")
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		missing = append(missing, "backend.base_url")
	}
	return missing
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
