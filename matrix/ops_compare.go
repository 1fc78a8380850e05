// SPDX-License-Identifier: MIT
// Package matrix: comparison helpers for engine outputs.
//
// Purpose:
//   - AllClose: tolerance-based equality |a-b| ≤ atol + rtol*|b|, elementwise.
//   - Equal: bitwise equality (math.Float64bits), used to assert determinism.
//   - MaxAbsDiff: largest |a-b|, reported when two engines are compared.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol| (negative values are normalized).

package matrix

import "math"

const (
	opAllClose = "AllClose"
	opEqual    = "Equal"
	opMaxDiff  = "MaxAbsDiff"
)

// AllClose reports whether a and b agree elementwise within tolerances.
// Implementation:
//   - Stage 1: reject NaN/Inf tolerances; normalize signs.
//   - Stage 2: validate presence and shape equality.
//   - Stage 3: flat walk for *Dense pairs, At-based walk otherwise.
//
// Errors: ErrNaNInf (bad tolerance), ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c), Space O(1) on the Dense fast-path.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if isNonFinite(rtol) || isNonFinite(atol) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := validatePair(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	within := func(x, y float64) bool { return math.Abs(x-y) <= atol+rtol*math.Abs(y) }

	// Dense fast-path: operate over flat slices when both are *Dense.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range da.data {
				if !within(da.data[idx], db.data[idx]) {
					return false, nil // early-exit on first violation
				}
			}
			return true, nil
		}
	}

	return walkPair(a, b, within)
}

// AllCloseOpts is AllClose with tolerances taken from options
// (DefaultRelTol / DefaultAbsTol unless WithTolerance is given).
func AllCloseOpts(a, b Matrix, opts ...Option) (bool, error) {
	o := gatherOptions(opts...)

	return AllClose(a, b, o.rtol, o.atol)
}

// Equal reports whether a and b hold bit-identical values.
// Complexity: O(r*c).
func Equal(a, b Matrix) (bool, error) {
	if err := validatePair(a, b); err != nil {
		return false, matrixErrorf(opEqual, err)
	}

	return walkPair(a, b, func(x, y float64) bool {
		return math.Float64bits(x) == math.Float64bits(y)
	})
}

// MaxAbsDiff returns max |a[i,j] - b[i,j]| over all elements.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func MaxAbsDiff(a, b Matrix) (float64, error) {
	if err := validatePair(a, b); err != nil {
		return 0, matrixErrorf(opMaxDiff, err)
	}

	var worst float64
	if _, err := walkPair(a, b, func(x, y float64) bool {
		worst = math.Max(worst, math.Abs(x-y))
		return true
	}); err != nil {
		return 0, matrixErrorf(opMaxDiff, err)
	}

	return worst, nil
}

// validatePair runs the canonical nil → shape sequence for binary comparisons.
func validatePair(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}

	return ValidateSameShape(a, b)
}

// walkPair applies eq to every (a[i,j], b[i,j]) in fixed i→j order.
func walkPair(a, b Matrix, eq func(x, y float64) bool) (bool, error) {
	r, c := a.Rows(), a.Cols()
	var (
		i, j   int
		av, bv float64
		err    error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if av, err = a.At(i, j); err != nil {
				return false, err
			}
			if bv, err = b.At(i, j); err != nil {
				return false, err
			}
			if !eq(av, bv) {
				return false, nil
			}
		}
	}

	return true, nil
}
