package matrix_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestMulConcrete checks the canonical 2×2 product.
func TestMulConcrete(t *testing.T) {
	A := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	B := MustRows(t, [][]float64{{5, 6}, {7, 8}})

	C, err := matrix.Mul(A, B)
	require.NoError(t, err)
	require.Equal(t, "[19, 22]\n[43, 50]\n", C.String())
}

// TestMulRectangular checks a non-square product shape.
func TestMulRectangular(t *testing.T) {
	A := MustRows(t, [][]float64{{1, 2, 3}})      // 1×3
	B := MustRows(t, [][]float64{{1}, {2}, {3}}) // 3×1

	C, err := matrix.Mul(A, B)
	require.NoError(t, err)
	require.Equal(t, 1, C.Rows())
	require.Equal(t, 1, C.Cols())
	require.Equal(t, 14.0, MustAt(t, C, 0, 0))
}

// TestMulDimensionMismatch ensures A.cols != B.rows is rejected.
func TestMulDimensionMismatch(t *testing.T) {
	A := MustDense(t, 2, 3)
	B := MustDense(t, 2, 3)

	_, err := matrix.Mul(A, B)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.Mul(nil, B)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMulMatchesGonum compares the kernel against an independent implementation.
func TestMulMatchesGonum(t *testing.T) {
	shapes := [][3]int{{1, 1, 1}, {3, 4, 5}, {7, 2, 9}, {16, 16, 16}, {33, 17, 8}}
	for idx, s := range shapes {
		n, m, p := s[0], s[1], s[2]
		t.Run(fmt.Sprintf("%dx%dx%d", n, m, p), func(t *testing.T) {
			A := RandomDense(t, n, m, int64(100+idx))
			B := RandomDense(t, m, p, int64(200+idx))

			got, err := matrix.Mul(A, B)
			require.NoError(t, err)

			var want mat.Dense
			want.Mul(toGonum(t, A), toGonum(t, B))
			var i, j int
			for i = 0; i < n; i++ {
				for j = 0; j < p; j++ {
					require.InDelta(t, want.At(i, j), MustAt(t, got, i, j), 1e-12)
				}
			}
		})
	}
}

// TestMulFallbackBitwise asserts the non-Dense path equals the Dense fast-path bit for bit.
func TestMulFallbackBitwise(t *testing.T) {
	A := RandomDense(t, 6, 5, 7)
	B := RandomDense(t, 5, 4, 8)

	fast, err := matrix.Mul(A, B)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{A}, hide{B})
	require.NoError(t, err)

	eq, err := matrix.Equal(fast, slow)
	require.NoError(t, err)
	require.True(t, eq)
}

// TestMulRowsDisjointRanges fills C range by range and compares with Mul.
func TestMulRowsDisjointRanges(t *testing.T) {
	A := RandomDense(t, 9, 4, 1)
	B := RandomDense(t, 4, 3, 2)
	want, err := matrix.Mul(A, B)
	require.NoError(t, err)

	C := MustDense(t, 9, 3)
	for _, r := range [][2]int{{0, 4}, {4, 7}, {7, 9}} {
		require.NoError(t, matrix.MulRows(C, A, B, r[0], r[1]))
	}
	eq, err := matrix.Equal(want, C)
	require.NoError(t, err)
	require.True(t, eq)
}

// TestMulRowsLeavesOtherRows ensures a range write never touches rows outside it.
func TestMulRowsLeavesOtherRows(t *testing.T) {
	A := MustRows(t, [][]float64{{1}, {2}, {3}})
	B := MustRows(t, [][]float64{{10}})
	C := MustRows(t, [][]float64{{-1}, {-1}, {-1}})

	require.NoError(t, matrix.MulRows(C, A, B, 1, 2))
	require.Equal(t, -1.0, MustAt(t, C, 0, 0))
	require.Equal(t, 20.0, MustAt(t, C, 1, 0))
	require.Equal(t, -1.0, MustAt(t, C, 2, 0))
}

// TestMulRowsErrors covers the validation sequence of MulRows.
func TestMulRowsErrors(t *testing.T) {
	A := MustDense(t, 2, 2)
	B := MustDense(t, 2, 2)

	require.ErrorIs(t, matrix.MulRows(nil, A, B, 0, 1), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.MulRows(MustDense(t, 3, 2), A, B, 0, 1), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.MulRows(MustDense(t, 2, 2), A, B, 1, 3), matrix.ErrOutOfRange)
	require.ErrorIs(t, matrix.MulRows(MustDense(t, 2, 2), A, B, 2, 1), matrix.ErrOutOfRange)
	require.NoError(t, matrix.MulRows(MustDense(t, 2, 2), A, B, 1, 1)) // empty range is legal
}

// TestMulRowsFlat exercises the raw-buffer entry point used by worker processes.
func TestMulRowsFlat(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{5, 6, 7, 8}
	c := make([]float64, 4)

	require.NoError(t, matrix.MulRowsFlat(c, a, b, 2, 2, 2, 1, 2))
	require.Equal(t, []float64{0, 0, 43, 50}, c)
	require.NoError(t, matrix.MulRowsFlat(c, a, b, 2, 2, 2, 0, 1))
	require.Equal(t, []float64{19, 22, 43, 50}, c)

	require.ErrorIs(t, matrix.MulRowsFlat(c, a, b, 0, 2, 2, 0, 0), matrix.ErrInvalidDimensions)
	require.ErrorIs(t, matrix.MulRowsFlat(c[:3], a, b, 2, 2, 2, 0, 1), matrix.ErrBadShape)
	require.ErrorIs(t, matrix.MulRowsFlat(c, a, b, 2, 2, 2, 0, 3), matrix.ErrOutOfRange)
}

// TestAllCloseAndEqual covers tolerance and bitwise comparison.
func TestAllCloseAndEqual(t *testing.T) {
	A := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	B := MustRows(t, [][]float64{{1, 2}, {3, 4 + 1e-13}})

	ok, err := matrix.AllClose(A, B, 0, 1e-12)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllCloseOpts(hide{A}, B)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllCloseOpts(A, B, matrix.WithTolerance(0, 0))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = matrix.Equal(A, B)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = matrix.AllClose(A, MustDense(t, 1, 2), 0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.AllClose(A, B, math.NaN(), 0)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	require.Panics(t, func() { matrix.WithTolerance(-1, 0) })
}

func TestMaxAbsDiff(t *testing.T) {
	A := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	B := MustRows(t, [][]float64{{1, 2.5}, {2, 4}})

	d, err := matrix.MaxAbsDiff(A, B)
	require.NoError(t, err)
	require.Equal(t, 1.0, d)

	d, err = matrix.MaxAbsDiff(hide{A}, A)
	require.NoError(t, err)
	require.Zero(t, d)

	_, err = matrix.MaxAbsDiff(A, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// toGonum copies a Dense into a gonum matrix for oracle comparisons.
func toGonum(tb testing.TB, m *matrix.Dense) *mat.Dense {
	tb.Helper()
	buf := make([]float64, m.Rows()*m.Cols())
	if err := matrix.CopyTo(buf, m); err != nil {
		tb.Fatalf("CopyTo: %v", err)
	}

	return mat.NewDense(m.Rows(), m.Cols(), buf)
}
