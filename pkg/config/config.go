package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds connection settings for the agent runtime API
type ServerConfig struct {
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"` // For parsing string duration
}

// PollingConfig holds run-status polling configuration
type PollingConfig struct {
	Interval    time.Duration `mapstructure:"-"`
	IntervalStr string        `mapstructure:"interval"` // For parsing string duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Polling PollingConfig `mapstructure:"polling"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Global config instance
var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	// Set defaults first
	setDefaults()

	// Configure viper
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}
		conduitCfgHome := filepath.Join(xdgConfigHome, "conduit")

		viper.AddConfigPath("./.conduit") // Check project directory first
		viper.AddConfigPath(conduitCfgHome)
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	// Enable environment variable support (CONDUIT_SERVER_URL etc.)
	viper.SetEnvPrefix("CONDUIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists; a missing file is fine, we run on defaults
	_ = viper.ReadInConfig()

	cfg = &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Post-process durations (viper doesn't handle time.Duration directly)
	if err := processDurations(cfg); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	return cfg, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("server.url", "http://localhost:8000/api")
	viper.SetDefault("server.timeout", "90s")

	viper.SetDefault("polling.interval", "2s")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.log_file", "conduit.log")
	viper.SetDefault("logging.preserve", false)
}

// processDurations converts the string duration fields into time.Duration
func processDurations(c *Config) error {
	timeout, err := time.ParseDuration(c.Server.TimeoutStr)
	if err != nil {
		return fmt.Errorf("invalid server.timeout %q: %w", c.Server.TimeoutStr, err)
	}
	c.Server.Timeout = timeout

	interval, err := time.ParseDuration(c.Polling.IntervalStr)
	if err != nil {
		return fmt.Errorf("invalid polling.interval %q: %w", c.Polling.IntervalStr, err)
	}
	c.Polling.Interval = interval

	return nil
}

// Set replaces the global config instance (useful for testing)
func Set(c *Config) {
	cfg = c
}
