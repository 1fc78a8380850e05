// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Provide thin, well-documented entry points for common tasks across the package.
//   - Avoid logic duplication: each facade delegates to the canonical implementation.

package matrix

// NewZeros returns a new zero-initialized *Dense of size rows×cols. The
// goroutine engine allocates C with it before workers fill their row ranges.
func NewZeros(rows, cols int) (*Dense, error) {
	return NewDense(rows, cols)
}

// Product is the sequential product a·b over all rows, i.e. Mul. It is the
// baseline the parallel engines are compared against.
func Product(a, b Matrix) (*Dense, error) { return Mul(a, b) }

// CopyTo writes m in row-major order into dst, which must hold exactly
// Rows()*Cols() values. Dense sources take a single copy(); any other
// implementation is read through At in fixed i→j order.
//
// Errors: ErrNilMatrix, ErrBadShape (len(dst) mismatch), At errors.
// Complexity: O(r*c).
func CopyTo(dst []float64, m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf(opCopyTo, err)
	}
	r, c := m.Rows(), m.Cols()
	if len(dst) != r*c {
		return matrixErrorf(opCopyTo, ErrBadShape)
	}
	if d, ok := m.(*Dense); ok {
		copy(dst, d.data)
		return nil
	}

	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return matrixErrorf(opCopyTo, err)
			}
			dst[i*c+j] = v
		}
	}

	return nil
}
