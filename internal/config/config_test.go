package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultPositionTolerance, cfg.PositionTolerance)
	assert.False(t, cfg.NormalizeLabels)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Empty(t, cfg.DatabasePath)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid_defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "zero_tolerance_is_valid",
			mutate:  func(c *Config) { c.PositionTolerance = 0 },
			wantErr: "",
		},
		{
			name:    "negative_tolerance",
			mutate:  func(c *Config) { c.PositionTolerance = -0.5 },
			wantErr: "position tolerance cannot be negative",
		},
		{
			name:    "zero_max_file_size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: "maximum file size must be positive",
		},
		{
			name:    "invalid_log_level",
			mutate:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDebug(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsDebug())

	cfg.LogLevel = "debug"
	assert.True(t, cfg.IsDebug())
}
