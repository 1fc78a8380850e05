// SPDX-License-Identifier: MIT

// Package config holds the run configuration of shmmul: worker count, output
// files, engine selection and logging. Values come from DefaultConfig, are
// overlaid by an optional YAML file (Load) and by environment variables, and
// are finally overridden by explicitly set CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/shmmul/logging"
	"github.com/katalvlaran/shmmul/parallel"
	"gopkg.in/yaml.v3"
)

// EnvSegmentDir overrides SegmentDir when set.
const EnvSegmentDir = "SHMMUL_SEGMENT_DIR"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full run configuration.
type Config struct {
	// Workers is the number of worker processes; 1 selects the sequential engine.
	Workers int `yaml:"workers"`
	// Output is the product file written in normal mode.
	Output string `yaml:"output"`
	// FullPrecision writes shortest round-trip values instead of 6 significant digits.
	FullPrecision bool `yaml:"full_precision"`
	// Compare runs both engines and writes an output_<n>/ report directory.
	Compare bool `yaml:"compare"`
	// Backend is "process" or "goroutine".
	Backend parallel.Backend `yaml:"backend"`
	// FailurePolicy is "abort" or "best-effort".
	FailurePolicy parallel.FailurePolicy `yaml:"failure_policy"`
	// SegmentDir is where shared segments live; empty means /dev/shm or the temp dir.
	SegmentDir string `yaml:"segment_dir"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Workers:       1,
		Output:        "output.txt",
		Backend:       parallel.DefaultBackend,
		FailurePolicy: parallel.DefaultFailurePolicy,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: logging.FormatConsole,
		},
	}
}

// Load reads a YAML configuration on top of DefaultConfig. An empty path or
// a missing file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv(EnvSegmentDir); dir != "" {
		c.SegmentDir = dir
	}
}

// Validate reports the first invalid field, wrapping ErrInvalid.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d: %w", c.Workers, ErrInvalid)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output must not be empty: %w", ErrInvalid)
	}
	if _, err := parallel.ParseBackend(string(c.Backend)); err != nil {
		return fmt.Errorf("%w: %w", err, ErrInvalid)
	}
	if _, err := parallel.ParseFailurePolicy(string(c.FailurePolicy)); err != nil {
		return fmt.Errorf("%w: %w", err, ErrInvalid)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("%w: %w", err, ErrInvalid)
	}

	return nil
}
