// SPDX-License-Identifier: MIT

package parallel

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/shmmul/partition"
)

var (
	// ErrSpawn is returned when a worker could not be started. Workers that
	// were already running are killed and reaped before it is returned.
	ErrSpawn = errors.New("parallel: worker spawn failed")

	// ErrWorkerFailure is matched by every *WorkerError.
	ErrWorkerFailure = errors.New("parallel: worker failed")
)

// WorkerError describes one worker that did not finish successfully.
type WorkerError struct {
	ID       int
	Range    partition.Range
	ExitCode int   // -1 when killed by a signal or never observed
	Err      error // underlying wait or compute error, may be nil
}

func (e *WorkerError) Error() string {
	msg := fmt.Sprintf("worker %d %s exited with code %d", e.ID, e.Range, e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes ErrWorkerFailure and the underlying cause to errors.Is/As.
func (e *WorkerError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrWorkerFailure}
	}

	return []error{ErrWorkerFailure, e.Err}
}
