// Package config loads booktest settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"pollex.nl/shelf/booktest"
)

// Config holds the runtime settings of the booktest tools.
type Config struct {
	// DSN is handed to the sqlite driver as is.
	DSN string `env:"DSN" envDefault:"file:booktest.db"`

	// Variant picks the table naming, see booktest.Variant.
	Variant string `env:"VARIANT" envDefault:"explicit"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Verbose logs every statement at debug level.
	Verbose bool `env:"VERBOSE" envDefault:"false"`
}

// Prefix is prepended to every variable name.
const Prefix = "BOOKTEST_"

// Load parses the BOOKTEST_* environment variables into a [Config].
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := booktest.ParseVariant(c.Variant); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SchemaVariant returns the configured variant. It assumes Validate passed.
func (c *Config) SchemaVariant() booktest.Variant {
	v, _ := booktest.ParseVariant(c.Variant)
	return v
}

// SlogLevel returns the configured log level, or info when it is unknown.
// A verbose config always logs at debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
