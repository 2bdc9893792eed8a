// Package config defines the dashboard service configuration and how it is loaded.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel error kinds; callers match them with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding the CSV extracts.
	DataDir string `koanf:"data_dir"`

	// MaxTopLimit caps every top-N query parameter.
	MaxTopLimit int `koanf:"max_top_limit"`

	// SplitAmericas reports North and South America separately.
	SplitAmericas bool `koanf:"split_americas"`

	// ReferenceDate (YYYY-MM-DD) is the day ages are computed at. Empty means today.
	ReferenceDate string `koanf:"reference_date"`

	// Preload loads every table at startup so a missing file stops the process early.
	Preload bool `koanf:"preload"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":9080",
		DataDir:     "data",
		MaxTopLimit: 50,
		Preload:     true,
	}
}

// referenceDateLayout is the accepted format for ReferenceDate.
const referenceDateLayout = "2006-01-02"

// AgeReference returns the day ages are computed at.
func (c *Config) AgeReference(_ context.Context) time.Time {
	if c.ReferenceDate != "" {
		if t, err := time.Parse(referenceDateLayout, c.ReferenceDate); err == nil {
			return t
		}
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate checks the invariants the service relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataDir) == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.MaxTopLimit <= 0:
		return fmt.Errorf("%w: max_top_limit must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	if c.ReferenceDate != "" {
		if _, err := time.Parse(referenceDateLayout, c.ReferenceDate); err != nil {
			return fmt.Errorf("%w: reference_date: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
