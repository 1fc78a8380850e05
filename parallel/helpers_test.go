// SPDX-License-Identifier: MIT

package parallel_test

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/katalvlaran/shmmul/parallel"
	"github.com/stretchr/testify/require"
)

var backends = []parallel.Backend{parallel.BackendProcess, parallel.BackendGoroutine}

// mustRows builds a Dense from literal rows or fails the test.
func mustRows(tb testing.TB, rows [][]float64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(tb, err)

	return m
}

// randomDense returns a deterministic r×c matrix in [-1,1).
func randomDense(tb testing.TB, r, c int, seed int64) *matrix.Dense {
	tb.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := matrix.NewDense(r, c)
	require.NoError(tb, err)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.NoError(tb, m.Set(i, j, rng.Float64()*2-1))
		}
	}

	return m
}

// newOrchestrator confines segments to a fresh directory returned alongside.
func newOrchestrator(tb testing.TB, opts ...parallel.Option) (*parallel.Orchestrator, string) {
	tb.Helper()
	dir := tb.TempDir()

	return parallel.New(append([]parallel.Option{parallel.WithSegmentDir(dir)}, opts...)...), dir
}

// requireNoSegments asserts that no segment name survived in dir.
func requireNoSegments(tb testing.TB, dir string) {
	tb.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(tb, err)
	require.Empty(tb, entries, "segments left behind")
}

func multiply(tb testing.TB, o *parallel.Orchestrator, a, b matrix.Matrix, w int) *parallel.Result {
	tb.Helper()
	res, err := o.Multiply(context.Background(), a, b, w)
	require.NoError(tb, err)
	require.NotNil(tb, res.C)

	return res
}

// requireBitwise asserts that got holds exactly the bits of want.
func requireBitwise(tb testing.TB, want, got matrix.Matrix, msgAndArgs ...any) {
	tb.Helper()
	eq, err := matrix.Equal(want, got)
	require.NoError(tb, err)
	require.True(tb, eq, msgAndArgs...)
}
