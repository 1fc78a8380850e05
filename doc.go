// Package shmmul multiplies dense matrices with independent worker
// processes that communicate only through shared memory, and checks the
// result against a single-process baseline.
//
// 🚀 What is in the box?
//
//   - matrix/     row-major Dense type, validators, the one i→j→k kernel
//   - shm/        named, bounds-checked shared segments and the Arena that owns them
//   - partition/  even ±1 row split of [0,N) into W contiguous ranges
//   - parallel/   the orchestrator, worker entry point, extraction and release
//   - mtxio/      whitespace-separated text codec for matrix files
//   - config/     YAML configuration with environment overrides
//   - logging/    zap loggers for the orchestrator and its workers
//   - cmd/shmmul  the command line tool
//
// ✨ Guarantees
//
//   - Disjoint writes: every output row belongs to exactly one worker, so the
//     compute phase needs no locks.
//   - Bit-identical results for every worker count and backend.
//   - Every segment is released on every exit path.
//
// Quick start:
//
//	shmmul A.txt B.txt -n 4 -o C.txt
package shmmul
