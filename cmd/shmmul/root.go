// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/shmmul/config"
	"github.com/katalvlaran/shmmul/logging"
	"github.com/katalvlaran/shmmul/parallel"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage error")

type cliFlags struct {
	configPath    string
	workers       int
	output        string
	compare       bool
	fullPrecision bool
	backend       string
	failurePolicy string
	segmentDir    string
	verbose       bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f cliFlags

	cmd := &cobra.Command{
		Use:   "shmmul <matrix_A_file> <matrix_B_file>",
		Short: "Multiply two matrices with worker processes over shared memory",
		Long: `shmmul reads A (N×M) and B (M×P) from whitespace-separated text files and
writes C = A·B.

With -n 1 the product is computed in process. With -n W > 1 the rows of C are
split into W contiguous ranges, each computed by its own worker process; the
workers share A, B and C through memory segments and never write the same row.
--compare runs both engines and writes output_<W>/ next to the output file.`,
		Example: `  shmmul A.txt B.txt -n 4 -o C.txt
  shmmul A.txt B.txt --compare -n 8 --full-precision`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected 2 matrix files, got %d: %w", len(args), errUsage)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			logger.Debug("configuration resolved", zap.Any("config", cfg))

			r := &runner{cfg: cfg, log: logger, out: stdout}
			if cfg.Compare {
				return r.compare(cmd.Context(), args[0], args[1])
			}
			return r.run(cmd.Context(), args[0], args[1])
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fl.IntVarP(&f.workers, "workers", "n", 1, "number of worker processes (1 = sequential)")
	fl.StringVarP(&f.output, "output", "o", "output.txt", "output file")
	fl.BoolVar(&f.compare, "compare", false, "run sequential and parallel engines and write output_<n>/")
	fl.BoolVar(&f.fullPrecision, "full-precision", false, "write shortest round-trip values")
	fl.StringVar(&f.backend, "backend", string(parallel.DefaultBackend), "worker backend: process or goroutine")
	fl.StringVar(&f.failurePolicy, "failure-policy", string(parallel.DefaultFailurePolicy), "on worker failure: abort or best-effort")
	fl.StringVar(&f.segmentDir, "segment-dir", "", "directory for shared segments (default /dev/shm)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly, then validates the result.
func resolveConfig(cmd *cobra.Command, f cliFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("output") {
		cfg.Output = f.output
	}
	if fl.Changed("compare") {
		cfg.Compare = f.compare
	}
	if fl.Changed("full-precision") {
		cfg.FullPrecision = f.fullPrecision
	}
	if fl.Changed("backend") {
		cfg.Backend = parallel.Backend(f.backend)
	}
	if fl.Changed("failure-policy") {
		cfg.FailurePolicy = parallel.FailurePolicy(f.failurePolicy)
	}
	if fl.Changed("segment-dir") {
		cfg.SegmentDir = f.segmentDir
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	return cfg, nil
}
