// Package common provides shared utilities for Kabu
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Kabu
type Config struct {
	Environment    string        `toml:"environment"`
	DefaultAccount string        `toml:"default_account"` // account used when a request carries no account id
	Server         ServerConfig  `toml:"server"`
	Storage        StorageConfig `toml:"storage"`
	Clients        ClientsConfig `toml:"clients"`
	Logging        LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration for the 2 storage areas.
type StorageConfig struct {
	Internal AreaConfig `toml:"internal"` // system KV (BadgerHold)
	User     AreaConfig `toml:"user"`     // transactions + watchlist (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Stooq StooqConfig `toml:"stooq"`
}

// StooqConfig holds Stooq quote endpoint configuration
type StooqConfig struct {
	BaseURL         string `toml:"base_url"`
	RateLimit       int    `toml:"rate_limit"` // requests per second
	Timeout         string `toml:"timeout"`
	RefreshInterval string `toml:"refresh_interval"` // background quote re-poll cadence
}

// GetTimeout parses and returns the timeout duration
func (c *StooqConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetRefreshInterval parses and returns the background refresh cadence.
func (c *StooqConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:    "development",
		DefaultAccount: "default",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8086,
		},
		Storage: StorageConfig{
			Internal: AreaConfig{Path: "data/internal"},
			User:     AreaConfig{Path: "data/user"},
		},
		Clients: ClientsConfig{
			Stooq: StooqConfig{
				BaseURL:         "https://stooq.com",
				RateLimit:       5,
				Timeout:         "15s",
				RefreshInterval: "15m",
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Outputs:  []string{"console"},
			FilePath: "./logs/kabu.log",
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
	if env := os.Getenv("KABU_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("KABU_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("KABU_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("KABU_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("KABU_DATA_PATH"); path != "" {
		config.Storage.Internal.Path = filepath.Join(path, "internal")
		config.Storage.User.Path = filepath.Join(path, "user")
	}

	if acct := os.Getenv("KABU_DEFAULT_ACCOUNT"); acct != "" {
		config.DefaultAccount = acct
	}

	if url := os.Getenv("KABU_STOOQ_BASE_URL"); url != "" {
		config.Clients.Stooq.BaseURL = url
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
