// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/katalvlaran/shmmul/config"
	"github.com/katalvlaran/shmmul/matrix"
	"github.com/katalvlaran/shmmul/mtxio"
	"github.com/katalvlaran/shmmul/parallel"
	"go.uber.org/zap"
)

type runner struct {
	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

func (r *runner) precision() int {
	if r.cfg.FullPrecision {
		return mtxio.FullPrecision
	}

	return mtxio.DefaultPrecision
}

func (r *runner) orchestrator() *parallel.Orchestrator {
	return parallel.New(
		parallel.WithBackend(r.cfg.Backend),
		parallel.WithFailurePolicy(r.cfg.FailurePolicy),
		parallel.WithSegmentDir(r.cfg.SegmentDir),
		parallel.WithLogger(r.log))
}

// load reads both inputs and checks that they can be multiplied.
func (r *runner) load(pathA, pathB string) (a, b *matrix.Dense, err error) {
	if a, err = mtxio.ReadFile(pathA); err != nil {
		return nil, nil, err
	}
	if b, err = mtxio.ReadFile(pathB); err != nil {
		return nil, nil, err
	}
	ra, ca := a.Shape()
	rb, cb := b.Shape()
	fmt.Fprintf(r.out, "Matrix A: %dx%d\n", ra, ca)
	fmt.Fprintf(r.out, "Matrix B: %dx%d\n", rb, cb)
	if err = matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, nil, fmt.Errorf("A is %dx%d, B is %dx%d: %w", ra, ca, rb, cb, err)
	}

	return a, b, nil
}

// runParallel runs the orchestrator and reports clamping and partial results.
func (r *runner) runParallel(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	res, err := r.orchestrator().Multiply(ctx, a, b, r.cfg.Workers)
	if err != nil {
		return nil, err
	}
	reportWarnings(r.out, res)

	return res.C, nil
}

// reportWarnings prints the clamping notice and, under best-effort, the row
// ranges of failed workers.
func reportWarnings(w io.Writer, res *parallel.Result) {
	if res.Clamped {
		fmt.Fprintf(w, "Warning: number of workers reduced to number of rows in the result matrix (%d)\n", len(res.Plan))
	}
	if failed := res.Failed(); len(failed) > 0 {
		fmt.Fprintf(w, "Warning: %d of %d workers failed, their rows may be zero or partially computed:", len(failed), len(res.Workers))
		for _, st := range failed {
			fmt.Fprintf(w, " %s", st.Range)
		}
		fmt.Fprintln(w)
	}
}

// run is the normal mode: one engine, one output file, performance metrics.
func (r *runner) run(ctx context.Context, pathA, pathB string) error {
	start := time.Now()
	a, b, err := r.load(pathA, pathB)
	if err != nil {
		return err
	}
	readTime := time.Since(start)

	var (
		c    *matrix.Dense
		kind string
	)
	mulStart := time.Now()
	if r.cfg.Workers == 1 {
		kind = "Sequential"
		fmt.Fprintln(r.out, "Using sequential implementation")
		c, err = parallel.Sequential(a, b)
	} else {
		kind = "Parallel"
		fmt.Fprintf(r.out, "Using parallel implementation with %d workers (%s backend)\n", r.cfg.Workers, r.cfg.Backend)
		c, err = r.runParallel(ctx, a, b)
	}
	if err != nil {
		return err
	}
	mulTime := time.Since(mulStart)

	writeStart := time.Now()
	if err = mtxio.WriteFile(r.cfg.Output, c, r.precision()); err != nil {
		return err
	}
	writeTime := time.Since(writeStart)

	fmt.Fprintf(r.out, "\nPerformance Metrics (%s Execution", kind)
	if r.cfg.Workers > 1 {
		fmt.Fprintf(r.out, " with %d workers", r.cfg.Workers)
	}
	fmt.Fprintln(r.out, "):")
	fmt.Fprintf(r.out, "Read time: %s\n", ms(readTime))
	fmt.Fprintf(r.out, "Multiplication time: %s\n", ms(mulTime))
	fmt.Fprintf(r.out, "Write time: %s\n", ms(writeTime))
	fmt.Fprintf(r.out, "Total time: %s\n", ms(time.Since(start)))
	fmt.Fprintf(r.out, "Result written to: %s\n", r.cfg.Output)

	return nil
}

// compare runs both engines on the same inputs and writes
// output_<n>/{C_seq.txt, C_parallel_<n>.txt, log.txt} next to the output file.
func (r *runner) compare(ctx context.Context, pathA, pathB string) error {
	a, b, err := r.load(pathA, pathB)
	if err != nil {
		return err
	}
	n := r.cfg.Workers

	seqStart := time.Now()
	seq, err := parallel.Sequential(a, b)
	if err != nil {
		return err
	}
	seqTime := time.Since(seqStart)

	parStart := time.Now()
	par, err := r.runParallel(ctx, a, b)
	if err != nil {
		return err
	}
	parTime := time.Since(parStart)

	match, err := matrix.AllClose(seq, par, matrix.DefaultRelTol, matrix.DefaultAbsTol)
	if err != nil {
		return err
	}
	diff, err := matrix.MaxAbsDiff(seq, par)
	if err != nil {
		return err
	}
	speedup := float64(seqTime) / float64(max(parTime, time.Nanosecond))

	dir := filepath.Join(filepath.Dir(r.cfg.Output), fmt.Sprintf("output_%d", n))
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", mtxio.ErrFile, err)
	}
	if err = mtxio.WriteFile(filepath.Join(dir, "C_seq.txt"), seq, r.precision()); err != nil {
		return err
	}
	if err = mtxio.WriteFile(filepath.Join(dir, fmt.Sprintf("C_parallel_%d.txt", n)), par, r.precision()); err != nil {
		return err
	}

	report := fmt.Sprintf("Sequential time: %s\nParallel time (%d workers, %s backend): %s\nSpeedup: %.2fx\nResults match: %t (rtol=%g, atol=%g, max abs diff %g)\n",
		ms(seqTime), n, r.cfg.Backend, ms(parTime), speedup, match, matrix.DefaultRelTol, matrix.DefaultAbsTol, diff)
	if err = os.WriteFile(filepath.Join(dir, "log.txt"), []byte(report), 0o644); err != nil {
		return fmt.Errorf("%w: %w", mtxio.ErrFile, err)
	}
	fmt.Fprint(r.out, report)
	fmt.Fprintf(r.out, "Results written to: %s\n", dir)
	r.log.Info("comparison finished", zap.String("dir", dir), zap.Bool("match", match), zap.Float64("speedup", speedup))

	return nil
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d.Microseconds())/1000)
}
