// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"os"

	"github.com/katalvlaran/shmmul/matrix"
	"github.com/katalvlaran/shmmul/partition"
	"golang.org/x/sync/errgroup"
)

// runGoroutines computes the plan with one goroutine per range, all writing
// disjoint rows of the same Dense.
func (o *Orchestrator) runGoroutines(ctx context.Context, a, b matrix.Matrix, plan partition.Plan) (*matrix.Dense, []WorkerStatus, error) {
	da, err := toDense(a)
	if err != nil {
		return nil, nil, err
	}
	db, err := toDense(b)
	if err != nil {
		return nil, nil, err
	}
	c, err := matrix.NewZeros(da.Rows(), db.Cols())
	if err != nil {
		return nil, nil, err
	}

	statuses := make([]WorkerStatus, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range plan {
		g.Go(func() error {
			st := WorkerStatus{ID: i, Range: r, Pid: os.Getpid()}
			if err := gctx.Err(); err != nil {
				st.ExitCode, st.Err = -1, err
			} else if err := matrix.MulRows(c, da, db, r.Start, r.End); err != nil {
				st.ExitCode, st.Err = 1, err
			}
			statuses[i] = st

			return st.Err
		})
	}
	_ = g.Wait() // failures are carried by statuses

	if err = o.settle(ctx, statuses); err != nil {
		return nil, statuses, err
	}

	return c, statuses, nil
}

// toDense returns m itself when it is a *Dense, or a copy otherwise.
func toDense(m matrix.Matrix) (*matrix.Dense, error) {
	if d, ok := m.(*matrix.Dense); ok {
		return d, nil
	}
	buf := make([]float64, m.Rows()*m.Cols())
	if err := matrix.CopyTo(buf, m); err != nil {
		return nil, err
	}

	return matrix.NewDenseFrom(m.Rows(), m.Cols(), buf, matrix.WithNoValidateNaNInf())
}
