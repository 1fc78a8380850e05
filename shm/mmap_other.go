// SPDX-License-Identifier: MIT

//go:build !unix

package shm

import "os"

func mapFile(*os.File, int, bool) ([]byte, error) { return nil, ErrUnsupported }

func unmapFile([]byte) error { return ErrUnsupported }

func sizeFile(*os.File, int) error { return ErrUnsupported }
