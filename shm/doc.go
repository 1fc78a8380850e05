// Package shm implements named shared-memory matrix segments.
//
// A Segment is a file in a shared-memory directory (by default /dev/shm)
// mapped MAP_SHARED into the address space of every process that holds it.
// Its layout is a fixed 16-byte header followed by the matrix data:
//
//	offset 0   rows  int64 (native byte order)
//	offset 8   cols  int64 (native byte order)
//	offset 16  rows*cols float64 values, row-major
//
// The file size is always exactly HeaderSize + rows*cols*ElementSize; the
// header is written once by Create and verified by Attach.
//
// Lifecycle:
//
//   - The orchestrating process creates segments (Create, or Arena.Create to
//     get unique per-invocation names) and keeps them mapped.
//   - Worker processes receive the open descriptors (os/exec ExtraFiles) and
//     map them with Attach. No name lookup is needed on the worker side.
//   - Close unmaps, closes the descriptor and, in the creating process,
//     removes the name. Close is idempotent, so it can be deferred on every
//     path and still called explicitly.
//
// Element access goes through bounds-checked At/Set/Row; Data exposes the
// whole data region for kernels that validate their own ranges.
package shm
