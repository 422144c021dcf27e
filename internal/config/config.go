// Package config loads formkit settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/internal/logging"
	"github.com/goliatone/go-formkit/pkg/search"
)

// Environment variables that override file values.
const (
	EnvElasticHost = "FORMKIT_ELASTIC_HOST"
	EnvDBPath      = "FORMKIT_DB_PATH"
	EnvLogLevel    = "FORMKIT_LOG_LEVEL"
)

// Config is the root of the YAML document.
type Config struct {
	Search SearchConfig `yaml:"search" json:"search"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// SearchConfig selects and configures the search engine.
type SearchConfig struct {
	Elastic  ElasticConfig  `yaml:"elastic" json:"elastic"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	// Timeout is a Go duration string, e.g. "15s".
	Timeout string `yaml:"timeout" json:"timeout"`
}

type ElasticConfig struct {
	Host  string `yaml:"host" json:"host"`
	Index string `yaml:"index" json:"index"`
}

type DatabaseConfig struct {
	// Path to the SQLite file; empty keeps the index in memory.
	Path string `yaml:"path" json:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Search: SearchConfig{
			Elastic: ElasticConfig{Index: search.DefaultElasticIndex},
			Timeout: search.DefaultTimeout.String(),
		},
		Log: LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// Load reads path (optional) over the defaults and applies environment
// overrides. A missing file is an error only when path is non-empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvElasticHost); ok {
		c.Search.Elastic.Host = v
	}
	if v, ok := lookup(EnvDBPath); ok {
		c.Search.Database.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = v
	}
}

// Validate checks values that would otherwise fail later at use.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.timeout(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("config: unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c Config) timeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Search.Timeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: search.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: search.timeout must not be negative")
	}
	return d, nil
}

// SearchConfig returns the explicit configuration passed to the engine
// selector.
func (c Config) SearchConfig() search.Config {
	timeout, _ := c.timeout()
	return search.Config{
		ElasticHost:  c.Search.Elastic.Host,
		ElasticIndex: c.Search.Elastic.Index,
		DatabasePath: c.Search.Database.Path,
		Timeout:      timeout,
	}
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}
