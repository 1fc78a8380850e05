// SPDX-License-Identifier: MIT

package parallel

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/katalvlaran/shmmul/logging"
	"github.com/katalvlaran/shmmul/matrix"
	"github.com/katalvlaran/shmmul/shm"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Environment handed to worker processes.
const (
	envRole     = "SHMMUL_ROLE"
	roleWorker  = "worker"
	envID       = "SHMMUL_WORKER_ID"
	envStart    = "SHMMUL_WORKER_START"
	envEnd      = "SHMMUL_WORKER_END"
	envLogLevel = "SHMMUL_LOG_LEVEL"
)

// Inherited descriptors: ExtraFiles[i] becomes fd 3+i in the child.
const (
	fdA = 3
	fdB = 4
	fdC = 5
)

// Worker exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 2 // malformed assignment
	ExitAttach  = 3 // segments missing, corrupt or incompatible
	ExitCompute = 4 // kernel or release failure
)

var (
	errAssignment = errors.New("parallel: malformed worker assignment")
	errAttach     = errors.New("parallel: worker attach failed")
)

type assignment struct {
	id, start, end int
}

// IsWorker reports whether the current process was started as a worker.
func IsWorker() bool { return os.Getenv(envRole) == roleWorker }

// RunWorker executes the assignment of a worker process and returns its exit
// code. It maps A and B read-only and C read/write from the inherited
// descriptors, computes rows [start,end) of C and unmaps; it never removes
// segment names.
func RunWorker() int {
	asg, err := parseAssignment(os.Getenv)
	log := logging.NewWorker(os.Getenv(envLogLevel)).With(
		zap.Int("worker", asg.id),
		zap.Int("start", asg.start),
		zap.Int("end", asg.end),
		zap.Int("pid", os.Getpid()))
	defer func() { _ = log.Sync() }()

	if err != nil {
		log.Error("rejecting assignment", zap.Error(err))
		return ExitUsage
	}

	err = work(asg, os.NewFile(fdA, "A"), os.NewFile(fdB, "B"), os.NewFile(fdC, "C"))
	switch {
	case err == nil:
		log.Debug("range computed")
		return ExitOK
	case errors.Is(err, errAttach):
		log.Error("cannot attach segments", zap.Error(err))
		return ExitAttach
	default:
		log.Error("compute failed", zap.Error(err))
		return ExitCompute
	}
}

func parseAssignment(getenv func(string) string) (assignment, error) {
	var (
		asg assignment
		err error
	)
	for _, f := range []struct {
		key string
		dst *int
	}{{envID, &asg.id}, {envStart, &asg.start}, {envEnd, &asg.end}} {
		if *f.dst, err = strconv.Atoi(getenv(f.key)); err != nil {
			return asg, fmt.Errorf("%s: %w: %w", f.key, errAssignment, err)
		}
	}
	if asg.id < 0 || asg.start < 0 || asg.end < asg.start {
		return asg, fmt.Errorf("worker %d [%d,%d): %w", asg.id, asg.start, asg.end, errAssignment)
	}

	return asg, nil
}

// work attaches the three segments, runs the kernel over the assigned rows
// and releases the mappings.
func work(asg assignment, fa, fb, fc *os.File) (err error) {
	segA, err := shm.Attach(fa, false)
	if err != nil {
		return fmt.Errorf("A: %w: %w", errAttach, err)
	}
	defer func() { err = multierr.Append(err, segA.Close()) }()
	segB, err := shm.Attach(fb, false)
	if err != nil {
		return fmt.Errorf("B: %w: %w", errAttach, err)
	}
	defer func() { err = multierr.Append(err, segB.Close()) }()
	segC, err := shm.Attach(fc, true)
	if err != nil {
		return fmt.Errorf("C: %w: %w", errAttach, err)
	}
	defer func() { err = multierr.Append(err, segC.Close()) }()

	n, m, p := segA.Rows(), segA.Cols(), segB.Cols()
	if segB.Rows() != m || segC.Rows() != n || segC.Cols() != p {
		return fmt.Errorf("A %dx%d, B %dx%d, C %dx%d: %w: %w",
			n, m, segB.Rows(), p, segC.Rows(), segC.Cols(), errAttach, matrix.ErrDimensionMismatch)
	}

	return matrix.MulRowsFlat(segC.Data(), segA.Data(), segB.Data(), n, m, p, asg.start, asg.end)
}
