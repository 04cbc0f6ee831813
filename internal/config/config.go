// Package config holds runtime configuration for the formdiff binaries,
// loaded from flags and FORMDIFF_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultPositionTolerance is the per-edge epsilon, in coordinate
	// units, for position-change detection.
	DefaultPositionTolerance = 1.0

	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultLogLevel    = "info"
)

// Config holds all configuration for the formdiff server and tools.
type Config struct {
	// Comparison tunables.
	PositionTolerance float64 // per-edge epsilon for position diffs
	NormalizeLabels   bool    // case/whitespace-normalize near-text before comparing

	// Decoder constraints.
	MaxFileSize int64

	// Persistence. Empty disables the result store.
	DatabasePath string

	// Application configuration.
	ServerName string
	Version    string
	LogLevel   string
}

// DefaultConfig returns a configuration with the documented defaults:
// exact-string label comparison and a one-unit position tolerance.
func DefaultConfig() *Config {
	return &Config{
		PositionTolerance: DefaultPositionTolerance,
		NormalizeLabels:   false,
		MaxFileSize:       DefaultMaxFileSize,
		DatabasePath:      "",
		ServerName:        "formdiff",
		Version:           "1.0.0",
		LogLevel:          DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.DatabasePath != "" {
		if expanded, err := filepath.Abs(cfg.DatabasePath); err == nil {
			cfg.DatabasePath = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FORMDIFF")
	viper.AutomaticEnv()

	viper.SetDefault("tolerance", cfg.PositionTolerance)
	viper.SetDefault("normalizelabels", cfg.NormalizeLabels)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("db", cfg.DatabasePath)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.Float64("tolerance", cfg.PositionTolerance,
		"Per-edge tolerance in coordinate units below which a position drift is not a change")
	pflag.Bool("normalizelabels", cfg.NormalizeLabels,
		"Case- and whitespace-normalize field labels before comparing them")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("db", cfg.DatabasePath,
		"SQLite database path for persisting results (empty disables persistence)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func bindFlagsToViper() {
	_ = viper.BindPFlag("tolerance", pflag.Lookup("tolerance"))
	_ = viper.BindPFlag("normalizelabels", pflag.Lookup("normalizelabels"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("db", pflag.Lookup("db"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

func populateConfigFromViper(cfg *Config) {
	cfg.PositionTolerance = viper.GetFloat64("tolerance")
	cfg.NormalizeLabels = viper.GetBool("normalizelabels")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.DatabasePath = viper.GetString("db")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PositionTolerance < 0 {
		return errors.New("position tolerance cannot be negative")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Tolerance: %.2f, NormalizeLabels: %t, MaxFileSize: %d, DatabasePath: %s, LogLevel: %s}",
		c.PositionTolerance, c.NormalizeLabels, c.MaxFileSize, c.DatabasePath, c.LogLevel)
}
