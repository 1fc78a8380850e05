// SPDX-License-Identifier: MIT

package parallel

import (
	"fmt"
	"io"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/katalvlaran/shmmul/shm"
	"go.uber.org/multierr"
)

// Extract copies the data of seg into a new, independently owned Dense.
// Call it only after every writer of seg has been joined.
func Extract(seg *shm.Segment) (*matrix.Dense, error) {
	if seg == nil {
		return nil, fmt.Errorf("Extract: %w", matrix.ErrNilMatrix)
	}
	data := seg.Data()
	if data == nil {
		return nil, fmt.Errorf("Extract(%s): %w", seg.Name(), shm.ErrClosed)
	}

	return matrix.NewDenseFrom(seg.Rows(), seg.Cols(), data, matrix.WithNoValidateNaNInf())
}

// ReleaseAll closes every non-nil closer (segments, arenas) and combines the
// errors. Every closer is attempted even if an earlier one fails. A typed nil
// *shm.Segment or *shm.Arena, as left by a Create that failed, is a no-op.
func ReleaseAll(closers ...io.Closer) error {
	var err error
	for _, c := range closers {
		if c != nil {
			err = multierr.Append(err, c.Close())
		}
	}

	return err
}
