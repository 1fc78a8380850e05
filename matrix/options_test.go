// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/stretchr/testify/require"
)

// TestValidateNaNInf_DefaultRejects verifies the documented default numeric policy.
func TestValidateNaNInf_DefaultRejects(t *testing.T) {
	require.True(t, matrix.DefaultValidateNaNInf)

	m := MustDense(t, 1, 2)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 1, math.Inf(-1)), matrix.ErrNaNInf)

	_, err := matrix.NewDenseFrom(1, 2, []float64{1, math.Inf(1)})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestValidateNaNInf_LastWriterWins ensures toggles apply in order.
func TestValidateNaNInf_LastWriterWins(t *testing.T) {
	off, err := matrix.NewDense(1, 1, matrix.WithValidateNaNInf(), matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, off.Set(0, 0, math.NaN()))

	// Clone keeps the policy of its source.
	clone := off.Clone()
	require.NoError(t, clone.Set(0, 0, math.Inf(1)))

	on, err := matrix.NewDense(1, 1, matrix.WithNoValidateNaNInf(), matrix.WithValidateNaNInf())
	require.NoError(t, err)
	require.ErrorIs(t, on.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
}

// TestWithTolerance_Applies checks that AllCloseOpts honours explicit tolerances.
func TestWithTolerance_Applies(t *testing.T) {
	a := MustRows(t, [][]float64{{1}})
	b := MustRows(t, [][]float64{{1.001}})

	ok, err := matrix.AllCloseOpts(a, b)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = matrix.AllCloseOpts(a, b, matrix.WithTolerance(0, 1e-2))
	require.NoError(t, err)
	require.True(t, ok)
}

// TestPanics_WithTolerance_Message validates the parameter guard and its stable message.
func TestPanics_WithTolerance_Message(t *testing.T) {
	const msg = "matrix: WithTolerance: rtol and atol must be finite, non-negative"
	require.PanicsWithValue(t, msg, func() { _ = matrix.WithTolerance(math.NaN(), 0) })
	require.PanicsWithValue(t, msg, func() { _ = matrix.WithTolerance(0, -1) })
	require.PanicsWithValue(t, msg, func() { _ = matrix.WithTolerance(math.Inf(1), 0) })
}
