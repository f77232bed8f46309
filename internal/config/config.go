// Package config handles resolving configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// ErrInvalid wraps every validation failure.
	ErrInvalid Error = "invalid config"

	defaultCatalogSize  = 500
	maxCatalogSize      = 100_000
	defaultSearchLimit  = 20
	maxSearchLimitBound = 1000
)

// Error is an error type returned by this package.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// LogLevel is the minimum level of emitted log records.
type LogLevel string

// Log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Level converts l to a [slog.Level], defaulting to Info.
func (l LogLevel) Level() slog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the facet configuration file.
type Config struct {
	LogLevel   LogLevel `yaml:"log_level"`
	WebAddress string   `yaml:"web_address"`
	DBFilepath string   `yaml:"db_filepath"`
	DevMode    bool     `yaml:"dev_mode"`
	Catalog    Catalog  `yaml:"catalog"`
	Search     Search   `yaml:"search"`
}

// Catalog configures the fake corpus behind the search endpoint.
type Catalog struct {
	// Seed makes the corpus reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
	Size int    `yaml:"size"`
}

// Search configures the search endpoint.
type Search struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Default returns a version of the config with all default values populated.
func Default() *Config {
	return &Config{
		LogLevel:   LogLevelInfo,
		WebAddress: "localhost:9999",
		DBFilepath: filepath.Join(xdg.DataHome, "facet", "db.sqlite"),
		Catalog: Catalog{
			Seed: 1,
			Size: defaultCatalogSize,
		},
		Search: Search{
			DefaultLimit: defaultSearchLimit,
			MaxLimit:     defaultSearchLimit * 5, //nolint:mnd
		},
	}
}

// DefaultPath is where the config file is looked up when no path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "facet.yaml")
}

// Load loads a YAML configuration file from a path, merges it with defaults, and
// validates it for completeness.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Write stores cfg as YAML at path, readable only by the current user.
func Write(path string, cfg *Config) error {
	const userOnlyDirPerms, userOnlyFilePerms = 0o700, 0o600
	if err := os.MkdirAll(filepath.Dir(path), userOnlyDirPerms); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = os.WriteFile(path, raw, userOnlyFilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every problem with cfg, joined.
func (c *Config) Validate() error {
	var errs []error
	switch LogLevel(strings.ToLower(string(c.LogLevel))) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel))
	}
	if _, _, err := net.SplitHostPort(c.WebAddress); err != nil {
		errs = append(errs, fmt.Errorf("%w: web_address: %w", ErrInvalid, err))
	}
	if c.DBFilepath == "" {
		errs = append(errs, fmt.Errorf("%w: db_filepath is required", ErrInvalid))
	}
	if c.Catalog.Size < 1 || c.Catalog.Size > maxCatalogSize {
		errs = append(errs, fmt.Errorf("%w: catalog.size must be within [1, %d]", ErrInvalid, maxCatalogSize))
	}
	if c.Search.MaxLimit < 1 || c.Search.MaxLimit > maxSearchLimitBound {
		errs = append(errs, fmt.Errorf("%w: search.max_limit must be within [1, %d]", ErrInvalid, maxSearchLimitBound))
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		errs = append(errs, fmt.Errorf("%w: search.default_limit must be within [1, search.max_limit]", ErrInvalid))
	}
	return errors.Join(errs...)
}
