// SPDX-License-Identifier: MIT

package parallel

import (
	"fmt"

	"github.com/katalvlaran/shmmul/matrix"
)

// Sequential computes a·b in the calling goroutine over all rows. It runs the
// same kernel as the workers and is the baseline Multiply is compared against.
func Sequential(a, b matrix.Matrix) (*matrix.Dense, error) {
	c, err := matrix.Product(a, b)
	if err != nil {
		return nil, fmt.Errorf("Sequential: %w", err)
	}

	return c, nil
}
