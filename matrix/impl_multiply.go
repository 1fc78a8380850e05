// SPDX-License-Identifier: MIT
// Package matrix: dense multiplication kernel shared by every engine.
//
// Purpose:
//   - One triple loop (i → j → k) computing C[i][j] = Σ_k A[i][k]*B[k][j].
//   - The same kernel runs in the sequential baseline, in goroutine workers and
//     in worker processes over shared-memory buffers. Because the summation
//     order per element never changes, every engine produces bit-identical
//     output for identical inputs, regardless of how rows were partitioned.
//   - Row-range entry points (MulRows, MulRowsFlat) write ONLY rows
//     [start,end) of C; disjoint ranges therefore never touch the same cell.
//
// Complexity:
//   - Time O(n·m·p) for a full product, O((end-start)·m·p) for a row range.

package matrix

import "fmt"

// Operation tags used for error wrapping (keep stable for grep-ability).
const (
	opMul         = "Mul"
	opMulRows     = "MulRows"
	opMulRowsFlat = "MulRowsFlat"
	opCopyTo      = "CopyTo"
)

// matrixErrorf wraps an underlying error with an operation tag.
// Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul computes the full product a·b into a newly allocated Dense.
// MAIN DESCRIPTION:
//   - Sequential baseline: every row of the result is computed in-process.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b) (nil + a.Cols == b.Rows).
//   - Stage 2: obtain flat row-major views (zero-copy for *Dense, CopyTo otherwise).
//   - Stage 3: run the shared kernel over rows [0, a.Rows()).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with "Mul").
//
// Determinism:
//   - Fixed i→j→k loop order; identical to MulRows/MulRowsFlat per element.
//
// Complexity:
//   - Time O(n·m·p), Space O(n·p) (+O(n·m + m·p) when inputs are not *Dense).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	n, m, p := a.Rows(), a.Cols(), b.Cols()

	res, err := NewDense(n, p)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	fa, err := flat(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	fb, err := flat(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	mulKernel(res.data, fa, fb, m, p, 0, n)

	return res, nil
}

// MulRows computes rows [start,end) of c = a·b in place.
// Rows of c outside the range are left untouched, which lets independent
// goroutines fill disjoint ranges of the same c without synchronization.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrOutOfRange.
// Complexity: O((end-start)·m·p).
func MulRows(c, a, b *Dense, start, end int) error {
	if c == nil || a == nil || b == nil {
		return matrixErrorf(opMulRows, ErrNilMatrix)
	}
	if err := ValidateMulCompatible(a, b); err != nil {
		return matrixErrorf(opMulRows, err)
	}
	if c.r != a.r || c.c != b.c {
		return matrixErrorf(opMulRows, fmt.Errorf("C is %dx%d, want %dx%d: %w", c.r, c.c, a.r, b.c, ErrDimensionMismatch))
	}
	if err := ValidateRowRange(start, end, c.r); err != nil {
		return matrixErrorf(opMulRows, err)
	}
	mulKernel(c.data, a.data, b.data, a.c, b.c, start, end)

	return nil
}

// MulRowsFlat computes rows [start,end) of C = A·B over raw row-major buffers.
// MAIN DESCRIPTION:
//   - Entry point for storage that is not a Dense (e.g. a shared-memory
//     segment mapped by a worker process).
//
// Implementation:
//   - Stage 1: validate n,m,p > 0 and buffer lengths n*m, m*p, n*p.
//   - Stage 2: validate the row range against n.
//   - Stage 3: run the shared kernel.
//
// Errors:
//   - ErrInvalidDimensions, ErrBadShape, ErrOutOfRange (wrapped with "MulRowsFlat").
//
// Complexity:
//   - Time O((end-start)·m·p), Space O(1).
func MulRowsFlat(c, a, b []float64, n, m, p, start, end int) error {
	if n <= 0 || m <= 0 || p <= 0 {
		return matrixErrorf(opMulRowsFlat, ErrInvalidDimensions)
	}
	if len(a) != n*m || len(b) != m*p || len(c) != n*p {
		return matrixErrorf(opMulRowsFlat, fmt.Errorf(
			"len(A)=%d len(B)=%d len(C)=%d for n=%d m=%d p=%d: %w",
			len(a), len(b), len(c), n, m, p, ErrBadShape))
	}
	if err := ValidateRowRange(start, end, n); err != nil {
		return matrixErrorf(opMulRowsFlat, err)
	}
	mulKernel(c, a, b, m, p, start, end)

	return nil
}

// mulKernel is the single triple loop behind every engine.
// Preconditions (checked by callers): buffers sized n*m, m*p, n*p and
// 0 ≤ start ≤ end ≤ n. Row slices keep Go's bounds checks on every access.
func mulKernel(c, a, b []float64, m, p, start, end int) {
	var (
		i, j, k    int
		sum        float64
		rowA, rowC []float64
	)
	for i = start; i < end; i++ {
		rowA = a[i*m : (i+1)*m]
		rowC = c[i*p : (i+1)*p]
		for j = 0; j < p; j++ {
			sum = 0
			for k = 0; k < m; k++ {
				sum += rowA[k] * b[k*p+j]
			}
			rowC[j] = sum
		}
	}
}

// flat returns a row-major view of m: the backing slice for *Dense (no copy),
// a fresh copy for any other implementation.
func flat(m Matrix) ([]float64, error) {
	if d, ok := m.(*Dense); ok {
		return d.data, nil
	}
	buf := make([]float64, m.Rows()*m.Cols())
	if err := CopyTo(buf, m); err != nil {
		return nil, err
	}

	return buf, nil
}
