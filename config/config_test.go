// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/shmmul/config"
	"github.com/katalvlaran/shmmul/logging"
	"github.com/katalvlaran/shmmul/parallel"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, "output.txt", cfg.Output)
	require.Equal(t, parallel.BackendProcess, cfg.Backend)
	require.Equal(t, parallel.AbortOnFailure, cfg.FailurePolicy)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv(config.EnvSegmentDir, "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	t.Setenv(config.EnvSegmentDir, "")
	path := filepath.Join(t.TempDir(), "shmmul.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 4
backend: goroutine
failure_policy: best-effort
logging:
  level: debug
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, parallel.BackendGoroutine, cfg.Backend)
	require.Equal(t, parallel.BestEffort, cfg.FailurePolicy)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, logging.FormatConsole, cfg.Logging.Format) // untouched default
	require.Equal(t, "output.txt", cfg.Output)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestEnvOverridesSegmentDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvSegmentDir, dir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, dir, cfg.SegmentDir)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(config.EnvSegmentDir, "")
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := config.DefaultConfig()
	cfg.Workers = 3
	cfg.Compare = true
	require.NoError(t, cfg.Save(path))

	got, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*config.Config){
		"zero workers":   func(c *config.Config) { c.Workers = 0 },
		"empty output":   func(c *config.Config) { c.Output = " " },
		"bad backend":    func(c *config.Config) { c.Backend = "threads" },
		"bad policy":     func(c *config.Config) { c.FailurePolicy = "retry" },
		"bad log format": func(c *config.Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

// TestValidateFollowsEngineEnums ties the accepted values to the parallel
// and logging parsers.
func TestValidateFollowsEngineEnums(t *testing.T) {
	for _, b := range []parallel.Backend{parallel.BackendProcess, parallel.BackendGoroutine} {
		for _, p := range []parallel.FailurePolicy{parallel.AbortOnFailure, parallel.BestEffort} {
			cfg := config.DefaultConfig()
			cfg.Backend, cfg.FailurePolicy = b, p
			require.NoError(t, cfg.Validate(), "%s/%s", b, p)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Logging.Format = logging.FormatJSON
	require.NoError(t, cfg.Validate())

	cfg.Backend = "Process"
	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalid)
	_, perr := parallel.ParseBackend("Process")
	require.EqualError(t, err, perr.Error()+": "+config.ErrInvalid.Error())
}
