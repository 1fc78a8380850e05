// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy of Dense
// constructors and comparison helpers. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true

	// DefaultRelTol is the relative tolerance used when comparing engine outputs.
	DefaultRelTol = 1e-9

	// DefaultAbsTol is the absolute tolerance used when comparing engine outputs.
	DefaultAbsTol = 1e-12
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicTolInvalid = "matrix: WithTolerance: rtol and atol must be finite, non-negative"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported to prevent external mutation; public entry points
// accept `...Option` and internally resolve them via gatherOptions.
type Options struct {
	validateNaNInf bool    // DefaultValidateNaNInf
	rtol           float64 // >= 0; DefaultRelTol
	atol           float64 // >= 0; DefaultAbsTol
}

// WithValidateNaNInf enables strict finite-value validation (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables NaN/Inf validation (use with care).
// The flag propagates only on creation; existing matrices are unaffected.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithTolerance sets the relative and absolute tolerances used by AllCloseOpts.
// Implementation:
//   - Stage 1: validate both are finite and ≥ 0.
//   - Stage 2: return a setter writing them into Options.
//
// Errors:
//   - Panics with a stable message when a tolerance is invalid.
func WithTolerance(rtol, atol float64) Option {
	if isNonFinite(rtol) || isNonFinite(atol) || rtol < 0 || atol < 0 {
		panic(panicTolInvalid)
	}

	return func(o *Options) { o.rtol, o.atol = rtol, atol }
}

// defaultOptions returns the documented defaults (single source of truth).
func defaultOptions() Options {
	return Options{
		validateNaNInf: DefaultValidateNaNInf,
		rtol:           DefaultRelTol,
		atol:           DefaultAbsTol,
	}
}

// gatherOptions applies user-provided Option setters on top of defaults.
// Setters are applied in order (last-writer-wins).
// Complexity: O(k) for k=len(user).
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// isNonFinite reports whether x is NaN or ±Inf.
func isNonFinite(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }
