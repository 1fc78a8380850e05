// SPDX-License-Identifier: MIT

package shm

import "errors"

var (
	// ErrResource is returned when a segment cannot be created, sized or mapped.
	// Callers match it with errors.Is; the OS error is wrapped alongside.
	ErrResource = errors.New("shm: resource error")

	// ErrCorruptHeader is returned by Attach when the header disagrees with the file size.
	ErrCorruptHeader = errors.New("shm: corrupt segment header")

	// ErrClosed is returned when a released segment is accessed.
	ErrClosed = errors.New("shm: segment closed")

	// ErrReadOnly is returned by Set on a segment attached without write access.
	ErrReadOnly = errors.New("shm: segment is read-only")

	// ErrUnsupported is returned on platforms without mmap support.
	ErrUnsupported = errors.New("shm: shared memory not supported on this platform")
)
