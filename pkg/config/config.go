// Package config provides configuration loading for the term storage.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/store"
)

// Config represents the complete configuration
type Config struct {
	// LenientParsing clamps out-of-range literal values instead of rejecting them
	LenientParsing bool `yaml:"lenient_parsing"`
	// Synchronized selects the locking backend flavor
	Synchronized bool `yaml:"synchronized"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json
	LogFormat string        `yaml:"log_format"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// MetricsConfig configures the Prometheus collector
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Namespace prefixes every metric name (default: rdfcore)
	Namespace string `yaml:"namespace"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LenientParsing: false,
		Synchronized:   true,
		LogLevel:       "info",
		LogFormat:      "text",
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "rdfcore",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. Missing keys keep
// their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Apply sets the process-wide switches the configuration controls.
func (c *Config) Apply() {
	datatypes.SetLenientParsing(c.LenientParsing)
}

// Logger builds a logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// StoreOptions returns the storage options the configuration selects.
func (c *Config) StoreOptions(logger *slog.Logger) []store.Option {
	return []store.Option{
		store.WithSynchronized(c.Synchronized),
		store.WithLogger(logger),
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}
