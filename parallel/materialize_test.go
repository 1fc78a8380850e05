// SPDX-License-Identifier: MIT

//go:build unix

package parallel_test

import (
	"io"
	"os"
	"testing"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/katalvlaran/shmmul/parallel"
	"github.com/katalvlaran/shmmul/shm"
	"github.com/stretchr/testify/require"
)

func TestExtractCopiesSegment(t *testing.T) {
	seg, err := shm.Create(t.TempDir(), "C", 2, 2)
	require.NoError(t, err)
	copy(seg.Data(), []float64{1, 2, 3, 4})

	c, err := parallel.Extract(seg)
	require.NoError(t, err)
	requireBitwise(t, mustRows(t, [][]float64{{1, 2}, {3, 4}}), c)

	// The extracted matrix is independent of the mapping.
	require.NoError(t, seg.Set(0, 0, 9))
	v, err := c.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)

	require.NoError(t, parallel.ReleaseAll(seg))
	_, err = parallel.Extract(seg)
	require.ErrorIs(t, err, shm.ErrClosed)

	_, err = parallel.Extract(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

type failingCloser struct{ closed *int }

func (f failingCloser) Close() error {
	*f.closed++
	return io.ErrClosedPipe
}

func TestReleaseAllAttemptsEveryCloser(t *testing.T) {
	var closed int
	seg, err := shm.Create(t.TempDir(), "X", 1, 1)
	require.NoError(t, err)

	err = parallel.ReleaseAll(failingCloser{&closed}, nil, seg, failingCloser{&closed})
	require.ErrorIs(t, err, io.ErrClosedPipe)
	require.Equal(t, 2, closed)
	require.Nil(t, seg.Data())
}

// TestReleaseAllTypedNilSegment covers the error path of a three-segment
// setup where the last Create failed and left its variable nil.
func TestReleaseAllTypedNilSegment(t *testing.T) {
	dir := t.TempDir()
	segA, err := shm.Create(dir, "A", 1, 2)
	require.NoError(t, err)
	segB, err := shm.Create(dir, "B", 2, 1)
	require.NoError(t, err)
	segC, err := shm.Create(dir, "C", 0, 1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	require.Nil(t, segC)

	var arena *shm.Arena
	require.NotPanics(t, func() {
		require.NoError(t, parallel.ReleaseAll(segA, segB, segC, arena))
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
