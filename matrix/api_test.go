// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewZeros checks shape, zero fill and dimension validation.
func TestNewZeros(t *testing.T) {
	z, err := matrix.NewZeros(3, 2)
	require.NoError(t, err)
	r, c := z.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		row, err := z.Row(i)
		require.NoError(t, err)
		require.Equal(t, []float64{0, 0}, row)
	}

	_, err = matrix.NewZeros(0, 2)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewZeros(2, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestProductMatchesMul requires Product to be bit-identical to Mul.
func TestProductMatchesMul(t *testing.T) {
	A := RandomDense(t, 7, 5, 11)
	B := RandomDense(t, 5, 4, 12)

	want, err := matrix.Mul(A, B)
	require.NoError(t, err)
	got, err := matrix.Product(A, B)
	require.NoError(t, err)

	same, err := matrix.Equal(want, got)
	require.NoError(t, err)
	require.True(t, same)

	_, err = matrix.Product(A, A)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Product(nil, B)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
