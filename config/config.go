// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads host configuration from the environment and scene
// files.
//
// Environment variables use the OFFSCREEN_ prefix, for example
// OFFSCREEN_LIBRARY_PATH or OFFSCREEN_TICK_RATE. A scene file is YAML and
// lists the surfaces a host should open.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/gogpu/offscreen"
	"github.com/gogpu/offscreen/browser"
)

// Prefix is the environment variable prefix.
const Prefix = "offscreen"

// ErrInvalid is returned for configuration values that parse but make no sense.
var ErrInvalid = errors.New("config: invalid value")

// Config holds host configuration.
type Config struct {
	// Backend selects a registered runtime by name. Empty picks the
	// highest-priority available backend.
	Backend string `envconfig:"BACKEND"`

	// LibraryPath is passed to the runtime loader.
	LibraryPath string `envconfig:"LIBRARY_PATH"`

	// RuntimeLogFile is the runtime's own log file.
	RuntimeLogFile string `envconfig:"RUNTIME_LOG_FILE" default:"cef.log"`

	// RuntimeLogSeverity is one of default, verbose, info, warning, error, disable.
	RuntimeLogSeverity string `envconfig:"RUNTIME_LOG_SEVERITY" default:"verbose"`

	// LogLevel is the host slog level: debug, info, warn or error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// TickRate is the number of host ticks per second.
	TickRate int `envconfig:"TICK_RATE" default:"60"`

	// Scene is an optional path to a YAML scene file.
	Scene string `envconfig:"SCENE"`

	// MetricsNamespace prefixes exported metric names.
	MetricsNamespace string `envconfig:"METRICS_NAMESPACE" default:"offscreen"`
}

// Load reads configuration from OFFSCREEN_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		RuntimeLogFile:     offscreen.DefaultLogFile,
		RuntimeLogSeverity: "verbose",
		LogLevel:           "info",
		TickRate:           60,
		MetricsNamespace:   "offscreen",
	}
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate %d", ErrInvalid, c.TickRate)
	}
	if _, err := c.Severity(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Severity parses RuntimeLogSeverity.
func (c *Config) Severity() (browser.LogSeverity, error) {
	s, ok := browser.ParseLogSeverity(c.RuntimeLogSeverity)
	if !ok {
		return 0, fmt.Errorf("%w: runtime log severity %q", ErrInvalid, c.RuntimeLogSeverity)
	}
	return s, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// TickInterval returns the time between host ticks.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// Engine converts c into an engine configuration.
func (c *Config) Engine() (offscreen.Config, error) {
	sev, err := c.Severity()
	if err != nil {
		return offscreen.Config{}, err
	}
	return offscreen.Config{
		LibraryPath: c.LibraryPath,
		LogSeverity: sev,
		LogFile:     c.RuntimeLogFile,
	}, nil
}
