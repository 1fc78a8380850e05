// SPDX-License-Identifier: MIT

//go:build unix

package shm

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps size bytes of f MAP_SHARED, read-only or read/write.
func mapFile(f *os.File, size int, writable bool) ([]byte, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}

	return unix.Mmap(int(f.Fd()), 0, size, prot, unix.MAP_SHARED)
}

// unmapFile releases a mapping obtained from mapFile.
func unmapFile(b []byte) error { return unix.Munmap(b) }

// sizeFile sets the exact byte size of f.
func sizeFile(f *os.File, size int) error { return unix.Ftruncate(int(f.Fd()), int64(size)) }
