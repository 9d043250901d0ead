// Package config provides Viper-based configuration management for darabctl
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete darabctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig contains backend connection settings
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
}

// CacheConfig contains query-cache staleness and garbage-collection
// settings. StaleTime zero means each resource keeps its built-in window.
type CacheConfig struct {
	StaleTime  time.Duration            `mapstructure:"stale_time"`
	GCInterval time.Duration            `mapstructure:"gc_interval"`
	IdleTTL    time.Duration            `mapstructure:"idle_ttl"`
	Resources  map[string]time.Duration `mapstructure:"resources"`
}

// RetryConfig contains the bounded-retry policy for transient failures
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
}

// SessionConfig contains durable session storage settings
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// StaleTimeFor returns the configured staleness window for a resource:
// the per-resource override when one exists, otherwise the global
// cache.stale_time. Zero means nothing was configured and the caller's
// built-in window applies.
func (c *Config) StaleTimeFor(resource string) time.Duration {
	if d, ok := c.Cache.Resources[resource]; ok && d > 0 {
		return d
	}
	return c.Cache.StaleTime
}

// Load reads configuration from file and environment variables
func Load(cfgFile, baseURL string) (*Config, error) {
	v := viper.New()

	// Set config file if specified
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .darabctl.yaml
		v.SetConfigName(".darabctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/darabctl")
	}

	// Environment variables: DARABCTL_API_BASE_URL overrides api.base_url
	v.SetEnvPrefix("DARABCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Override base URL if specified via flag
	if baseURL != "" {
		v.Set("api.base_url", baseURL)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Default session path lives next to the config
	if cfg.Session.Path == "" {
		cfg.Session.Path = defaultSessionPath()
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	// Backend defaults
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", 10.0)

	// Registered at zero so the env override is visible to Unmarshal;
	// zero leaves each resource on its built-in staleness window
	v.SetDefault("cache.stale_time", time.Duration(0))
	v.SetDefault("cache.gc_interval", 1*time.Minute)
	v.SetDefault("cache.idle_ttl", 15*time.Minute)

	// Retry defaults
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_interval", 500*time.Millisecond)

	// Registered empty so the DARABCTL_SESSION_PATH override is visible
	// to Unmarshal; the real default is computed after loading
	v.SetDefault("session.path", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Output defaults
	v.SetDefault("output.colors", true)
}

// defaultSessionPath returns the default durable session file location
func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".darabctl-session.json"
	}
	return filepath.Join(home, ".config", "darabctl", "session.json")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
