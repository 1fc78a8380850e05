// SPDX-License-Identifier: MIT

package partition

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidWorkers is returned when the requested worker count is ≤ 0.
	ErrInvalidWorkers = errors.New("partition: worker count must be > 0")

	// ErrInvalidRows is returned when the row count is ≤ 0.
	ErrInvalidRows = errors.New("partition: row count must be > 0")

	// ErrInvalidPlan is returned by Validate when a plan breaks an invariant.
	ErrInvalidPlan = errors.New("partition: invalid plan")
)

// Range is a half-open span [Start, End) of row indices.
type Range struct {
	Start int // first row (inclusive)
	End   int // last row (exclusive)
}

// Len returns the number of rows in the range.
func (r Range) Len() int { return r.End - r.Start }

// String renders the range as "[start,end)".
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Plan is an ordered set of disjoint, contiguous ranges covering [0, N).
type Plan []Range

// Rows returns the total number of rows covered by the plan.
func (p Plan) Rows() int {
	if len(p) == 0 {
		return 0
	}

	return p[len(p)-1].End
}

// String renders the plan as a space separated list of ranges.
func (p Plan) String() string {
	parts := make([]string, len(p))
	for i, r := range p {
		parts[i] = r.String()
	}

	return strings.Join(parts, " ")
}

// Clamp returns min(workers, rows) and whether clamping took place.
// Non-positive inputs are returned unchanged; New rejects them.
func Clamp(rows, workers int) (int, bool) {
	if rows > 0 && workers > rows {
		return rows, true
	}

	return workers, false
}

// New computes the partition plan for rows rows and workers workers.
// MAIN DESCRIPTION:
//   - Even ±1 split with the extra rows on the first rows mod W ranges.
//
// Implementation:
//   - Stage 1: validate rows > 0 and workers > 0.
//   - Stage 2: clamp workers to rows.
//   - Stage 3: range i = [i*q + min(i,r), (i+1)*q + min(i+1,r)), q = rows/W, r = rows%W.
//
// Errors:
//   - ErrInvalidRows, ErrInvalidWorkers.
//
// Complexity:
//   - Time O(W), Space O(W).
func New(rows, workers int) (Plan, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("New(%d,%d): %w", rows, workers, ErrInvalidRows)
	}
	if workers <= 0 {
		return nil, fmt.Errorf("New(%d,%d): %w", rows, workers, ErrInvalidWorkers)
	}
	workers, _ = Clamp(rows, workers)

	q, rem := rows/workers, rows%workers
	plan := make(Plan, workers)
	for i := 0; i < workers; i++ {
		plan[i] = Range{
			Start: i*q + min(i, rem),
			End:   (i+1)*q + min(i+1, rem),
		}
	}

	return plan, nil
}

// Validate checks the plan invariants against rows: non-empty, starts at 0,
// ends at rows, contiguous, and every length is ⌊rows/W⌋ or ⌊rows/W⌋+1 with
// the longer ranges first.
func (p Plan) Validate(rows int) error {
	if len(p) == 0 {
		return fmt.Errorf("empty plan: %w", ErrInvalidPlan)
	}
	if p[0].Start != 0 {
		return fmt.Errorf("first range %s does not start at 0: %w", p[0], ErrInvalidPlan)
	}
	if p.Rows() != rows {
		return fmt.Errorf("plan covers %d rows, want %d: %w", p.Rows(), rows, ErrInvalidPlan)
	}

	q, rem := rows/len(p), rows%len(p)
	for i, r := range p {
		if i > 0 && p[i-1].End != r.Start {
			return fmt.Errorf("gap or overlap between %s and %s: %w", p[i-1], r, ErrInvalidPlan)
		}
		want := q
		if i < rem {
			want++
		}
		if r.Len() != want {
			return fmt.Errorf("range %d %s has %d rows, want %d: %w", i, r, r.Len(), want, ErrInvalidPlan)
		}
	}

	return nil
}
