// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"fmt"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/katalvlaran/shmmul/partition"
	"github.com/katalvlaran/shmmul/shm"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// WorkerStatus is the terminal state of one worker, observed once by the join.
type WorkerStatus struct {
	ID       int
	Range    partition.Range
	Pid      int
	ExitCode int
	Err      error
}

// OK reports whether the worker finished its range.
func (s WorkerStatus) OK() bool { return s.Err == nil && s.ExitCode == 0 }

// Result is the outcome of one Multiply call.
type Result struct {
	C         *matrix.Dense
	Plan      partition.Plan
	Workers   []WorkerStatus
	Requested int  // worker count asked for
	Clamped   bool // Requested exceeded the row count
	Backend   Backend
}

// Failed returns the statuses of workers that did not succeed. It is only
// non-empty under BestEffort; the rows of C in those ranges may be zero or
// partially computed.
func (r *Result) Failed() []WorkerStatus {
	var out []WorkerStatus
	for _, st := range r.Workers {
		if !st.OK() {
			out = append(out, st)
		}
	}

	return out
}

// Orchestrator runs parallel multiplications. It holds no per-call state and
// may be shared.
type Orchestrator struct {
	opts options
	log  *zap.Logger
}

// New returns an Orchestrator configured by opts.
func New(opts ...Option) *Orchestrator {
	o := gatherOptions(opts...)

	return &Orchestrator{opts: o, log: o.logger}
}

// Multiply computes a·b with workers workers.
// MAIN DESCRIPTION:
//   - Rows of the product are split by partition.New; each range is computed
//     by exactly one worker writing only its own rows.
//
// Implementation:
//   - Stage 1: validate shapes and worker count before any segment exists.
//   - Stage 2: clamp workers to the row count (logged) and plan the ranges.
//   - Stage 3: run the backend: shared segments + worker processes, or
//     goroutines over one Dense.
//   - Stage 4: join all workers and apply the failure policy.
//   - Stage 5: extract the product; every segment is released on all paths.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch, partition.ErrInvalidWorkers,
//     shm.ErrResource, ErrSpawn, ErrWorkerFailure, ctx.Err().
func (o *Orchestrator) Multiply(ctx context.Context, a, b matrix.Matrix, workers int) (*Result, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("Multiply: %w", err)
	}
	if workers <= 0 {
		return nil, fmt.Errorf("Multiply(workers=%d): %w", workers, partition.ErrInvalidWorkers)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Multiply: %w", err)
	}

	n := a.Rows()
	w, clamped := partition.Clamp(n, workers)
	if clamped {
		o.log.Warn("more workers than rows, clamping",
			zap.Int("requested", workers),
			zap.Int("workers", w),
			zap.Int("rows", n))
	}
	plan, err := partition.New(n, w)
	if err != nil {
		return nil, fmt.Errorf("Multiply: %w", err)
	}
	o.log.Debug("rows partitioned",
		zap.String("backend", string(o.opts.backend)),
		zap.Stringer("plan", plan))

	res := &Result{Plan: plan, Requested: workers, Clamped: clamped, Backend: o.opts.backend}
	switch o.opts.backend {
	case BackendGoroutine:
		res.C, res.Workers, err = o.runGoroutines(ctx, a, b, plan)
	default:
		res.C, res.Workers, err = o.runShared(ctx, a, b, plan)
	}
	if err != nil {
		return nil, fmt.Errorf("Multiply: %w", err)
	}

	return res, nil
}

// runShared owns the segment arena for one call.
func (o *Orchestrator) runShared(ctx context.Context, a, b matrix.Matrix, plan partition.Plan) (c *matrix.Dense, statuses []WorkerStatus, err error) {
	arena, err := shm.NewArena(o.opts.segmentDir)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if rerr := ReleaseAll(arena); rerr != nil {
			c, err = nil, multierr.Append(err, rerr)
		}
	}()

	n, m, p := a.Rows(), a.Cols(), b.Cols()
	segA, err := arena.Create("A", n, m)
	if err != nil {
		return nil, nil, err
	}
	if err = matrix.CopyTo(segA.Data(), a); err != nil {
		return nil, nil, err
	}
	segB, err := arena.Create("B", m, p)
	if err != nil {
		return nil, nil, err
	}
	if err = matrix.CopyTo(segB.Data(), b); err != nil {
		return nil, nil, err
	}
	segC, err := arena.Create("C", n, p)
	if err != nil {
		return nil, nil, err
	}
	o.log.Debug("segments created",
		zap.String("dir", arena.Dir()),
		zap.String("prefix", arena.Prefix()))

	statuses, err = o.spawnAndJoin(ctx, [3]*shm.Segment{segA, segB, segC}, plan)
	if err != nil {
		return nil, nil, err
	}
	if err = o.settle(ctx, statuses); err != nil {
		return nil, statuses, err
	}
	c, err = Extract(segC)

	return c, statuses, err
}

// settle logs every failed worker and applies the failure policy.
// A cancelled context always fails the call.
func (o *Orchestrator) settle(ctx context.Context, statuses []WorkerStatus) error {
	var (
		failures error
		failed   int
	)
	for _, st := range statuses {
		if st.OK() {
			continue
		}
		failed++
		failures = multierr.Append(failures, &WorkerError{ID: st.ID, Range: st.Range, ExitCode: st.ExitCode, Err: st.Err})
		o.log.Warn("worker failed",
			zap.Int("worker", st.ID),
			zap.Stringer("range", st.Range),
			zap.Int("pid", st.Pid),
			zap.Int("exit_code", st.ExitCode),
			zap.Error(st.Err))
	}
	if failures == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return multierr.Append(err, failures)
	}
	if o.opts.policy == BestEffort {
		o.log.Warn("continuing with partial result", zap.Int("failed", failed), zap.Int("workers", len(statuses)))
		return nil
	}

	return fmt.Errorf("%d of %d workers failed: %w", failed, len(statuses), failures)
}
