// Package matrix provides the dense row-major matrix type shared by every
// engine in shmmul, together with the sequential multiplication kernel.
//
// The matrix package provides:
//
//   - Matrix, a small interface (Rows, Cols, At, Set, Clone) with
//     bounds-checked accessors that return errors instead of panicking.
//   - Dense, a concrete row-major implementation storing r*c float64 values
//     in one flat slice (offset = i*cols + j).
//   - Mul / MulRows / MulRowsFlat, the triple-loop kernel used by the
//     sequential baseline, the goroutine backend and the worker processes.
//     All of them share one loop order, so results are bit-identical no
//     matter which engine or how many workers computed a row.
//   - Validators and AllClose / Equal for comparing engine outputs.
//
// See the examples in this package for usage patterns.
package matrix
