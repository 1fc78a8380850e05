// Package partition splits the rows of an N-row result among W workers.
//
// The plan is a sequence of W contiguous half-open ranges [Start, End) that
// jointly cover [0, N) with no gaps and no overlaps. Range lengths differ by at
// most one row: the first N mod W ranges carry the extra row.
//
// Disjointness is what makes the write phase of a parallel multiplication
// lock-free: no two workers ever write the same output row.
//
//	plan, err := partition.New(5, 3) // [0,2) [2,4) [4,5)
//
// W larger than N is clamped to N (Clamp reports whether that happened so the
// caller can emit a notice); W ≤ 0 is rejected with ErrInvalidWorkers.
package partition
