// Package config handles configuration loading for clx.
// It supports XDG config paths and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for clx.
type Config struct {
	// NoProgress disables progress rendering entirely.
	NoProgress bool `mapstructure:"no_progress"`
	// TextMode forces plain line output even on a terminal.
	TextMode bool `mapstructure:"text_mode"`
	// TraceLog is a path that receives one JSON line per rendered frame.
	TraceLog string `mapstructure:"trace_log"`
	// TraceRaw keeps ANSI escape sequences in the trace log.
	TraceRaw bool `mapstructure:"trace_raw"`
	// Interval is the refresh interval; zero means the built-in default.
	Interval time.Duration `mapstructure:"interval"`
	// CI marks a CI environment, which implies text mode.
	CI bool `mapstructure:"ci"`
}

// Load loads configuration from XDG paths and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (CLX_NO_PROGRESS, CLX_TEXT_MODE, CLX_TRACE_LOG,
//    CLX_TRACE_RAW, CLX_INTERVAL, CI)
// 2. User config (~/.config/clx/config.yaml)
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	v.SetEnvPrefix("CLX")
	v.AutomaticEnv()
	v.BindEnv("no_progress", "CLX_NO_PROGRESS")
	v.BindEnv("text_mode", "CLX_TEXT_MODE")
	v.BindEnv("trace_log", "CLX_TRACE_LOG")
	v.BindEnv("trace_raw", "CLX_TRACE_RAW")
	v.BindEnv("interval", "CLX_INTERVAL")
	v.BindEnv("ci", "CI")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// FromEnv loads configuration, falling back to defaults when loading fails.
// Rendering must come up even with a broken config file.
func FromEnv() Config {
	cfg, err := Load()
	if err != nil {
		return Config{}
	}
	return *cfg
}

// getUserConfigDir returns the XDG config directory for clx.
func getUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "clx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clx"
	}
	return filepath.Join(home, ".config", "clx")
}
