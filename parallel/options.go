// SPDX-License-Identifier: MIT

package parallel

import (
	"fmt"

	"go.uber.org/zap"
)

// Backend selects what a worker is.
type Backend string

const (
	// BackendProcess runs every range in its own OS process over shared segments.
	BackendProcess Backend = "process"
	// BackendGoroutine runs every range in a goroutine over one in-process buffer.
	BackendGoroutine Backend = "goroutine"
)

// FailurePolicy decides what Multiply returns when a worker fails.
type FailurePolicy string

const (
	// AbortOnFailure returns an error wrapping ErrWorkerFailure and no matrix.
	AbortOnFailure FailurePolicy = "abort"
	// BestEffort logs each failure and returns the extracted matrix; rows of
	// failed workers may be zero or partially computed and are listed by
	// Result.Failed.
	BestEffort FailurePolicy = "best-effort"
)

// Defaults.
const (
	DefaultBackend       = BackendProcess
	DefaultFailurePolicy = AbortOnFailure
)

const (
	panicBackendInvalid = "parallel: WithBackend: unknown backend"
	panicPolicyInvalid  = "parallel: WithFailurePolicy: unknown policy"
)

// ParseBackend converts a configuration string into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendProcess, BackendGoroutine:
		return b, nil
	}

	return "", fmt.Errorf("unknown backend %q", s)
}

// ParseFailurePolicy converts a configuration string into a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case AbortOnFailure, BestEffort:
		return p, nil
	}

	return "", fmt.Errorf("unknown failure policy %q", s)
}

// Option configures an Orchestrator.
type Option func(*options)

type options struct {
	backend    Backend
	policy     FailurePolicy
	logger     *zap.Logger
	segmentDir string // "" = shm.DefaultDir()
	executable string // "" = os.Executable()
}

// WithBackend selects the worker backend. Panics on an unknown value.
func WithBackend(b Backend) Option {
	if _, err := ParseBackend(string(b)); err != nil {
		panic(panicBackendInvalid)
	}

	return func(o *options) { o.backend = b }
}

// WithFailurePolicy selects the worker failure policy. Panics on an unknown value.
func WithFailurePolicy(p FailurePolicy) Option {
	if _, err := ParseFailurePolicy(string(p)); err != nil {
		panic(panicPolicyInvalid)
	}

	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger; nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSegmentDir sets the directory that holds shared segments.
func WithSegmentDir(dir string) Option {
	return func(o *options) { o.segmentDir = dir }
}

// WithExecutable overrides the binary started for each worker. It must
// dispatch worker invocations with IsWorker/RunWorker.
func WithExecutable(path string) Option {
	return func(o *options) { o.executable = path }
}

func gatherOptions(user ...Option) options {
	o := options{
		backend: DefaultBackend,
		policy:  DefaultFailurePolicy,
		logger:  zap.NewNop(),
	}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}
