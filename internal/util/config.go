// Package util provides common utilities for ipwatch.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Probe settings
	Endpoint     string        `mapstructure:"endpoint"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`

	// Polling interval for automatic probes
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".ipwatch")

	return &Config{
		DataDir:  dataDir,
		LogLevel: "info",
		LogFile:  filepath.Join(dataDir, "ipwatch.log"),

		Endpoint:     "https://ipapi.co/json/",
		ProbeTimeout: 10 * time.Second,
		PollInterval: 30 * time.Second,
	}
}

// LoadConfig loads configuration from file and environment.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	// Ensure config directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(cfg.DataDir)
	viper.AddConfigPath(".")

	// Set defaults in viper
	viper.SetDefault("data_dir", cfg.DataDir)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("log_file", cfg.LogFile)
	viper.SetDefault("endpoint", cfg.Endpoint)
	viper.SetDefault("probe_timeout", cfg.ProbeTimeout)
	viper.SetDefault("poll_interval", cfg.PollInterval)

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.ProbeTimeout <= 0 {
		return nil, fmt.Errorf("probe_timeout must be positive, got %s", cfg.ProbeTimeout)
	}

	return cfg, nil
}

// EnsureDir ensures a directory exists.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
