// Package config loads the toggle demo configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const envPrefix = "SOLO"

var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidClients   = errors.New("clients must be positive")
	ErrInvalidFlips     = errors.New("flips must not be negative")
)

type (
	Config struct {
		Log     LogConfig     `yaml:"log"`
		Metrics MetricsConfig `yaml:"metrics"`
		Demo    DemoConfig    `yaml:"demo"`
	}

	LogConfig struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	}

	MetricsConfig struct {
		// Addr serves /metrics when set, e.g. ":2121".
		Addr string `yaml:"addr"`
	}

	DemoConfig struct {
		ProcessID string `yaml:"process_id"`
		Initial   string `yaml:"initial"` // alpha | beta
		Clients   int    `yaml:"clients"`
		Flips     int    `yaml:"flips"`
	}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:  LogConfig{Level: "info", Format: "text"},
		Demo: DemoConfig{Initial: "alpha", Clients: 2, Flips: 4},
	}
}

// Load reads path (if not empty) over the defaults, applies SOLO_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	if c.Demo.Clients <= 0 {
		return ErrInvalidClients
	}
	if c.Demo.Flips < 0 {
		return ErrInvalidFlips
	}
	switch strings.ToLower(c.Demo.Initial) {
	case "alpha", "beta":
	default:
		return fmt.Errorf("invalid initial state %q", c.Demo.Initial)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
	return lvl, nil
}

func (c *Config) applyEnv() error {
	if v, ok := getEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnv("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := getEnv("METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}
	if v, ok := getEnv("PROCESS_ID"); ok {
		c.Demo.ProcessID = v
	}
	if v, ok := getEnv("INITIAL"); ok {
		c.Demo.Initial = v
	}
	if err := getEnvInt("CLIENTS", &c.Demo.Clients); err != nil {
		return err
	}
	return getEnvInt("FLIPS", &c.Demo.Flips)
}

func getEnv(key string) (string, bool) {
	return os.LookupEnv(envPrefix + "_" + key)
}

func getEnvInt(key string, dst *int) error {
	v, ok := getEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s_%s: %w", envPrefix, key, err)
	}
	*dst = n
	return nil
}
