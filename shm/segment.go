// SPDX-License-Identifier: MIT

package shm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"github.com/katalvlaran/shmmul/matrix"
	"go.uber.org/multierr"
)

const (
	// HeaderSize is the byte size of the segment header (rows, cols as int64).
	// It keeps the data region 8-byte aligned inside a page-aligned mapping.
	HeaderSize = 16

	// ElementSize is the byte size of one matrix element (float64).
	ElementSize = 8
)

// Segment is one mapped shared-memory matrix.
// A Segment is not safe for concurrent Close; element access from several
// processes or goroutines is safe only on disjoint cells.
type Segment struct {
	name     string
	path     string
	file     *os.File
	mem      []byte    // whole mapping, header included
	data     []float64 // rows*cols view over mem[HeaderSize:]
	rows     int
	cols     int
	owner    bool // created (not attached) by this process: Close unlinks
	writable bool

	closeOnce sync.Once
	closed    bool
}

// SizeFor returns the exact segment byte size for a rows×cols matrix.
// Errors: matrix.ErrInvalidDimensions for non-positive shapes, ErrResource on overflow.
func SizeFor(rows, cols int) (int, error) {
	if rows <= 0 || cols <= 0 {
		return 0, matrix.ErrInvalidDimensions
	}
	if cols > (math.MaxInt-HeaderSize)/ElementSize/rows {
		return 0, fmt.Errorf("%dx%d overflows: %w", rows, cols, ErrResource)
	}

	return HeaderSize + rows*cols*ElementSize, nil
}

// Create allocates a new named segment in dir sized for a rows×cols matrix.
// MAIN DESCRIPTION:
//   - Exclusive create (a name collision is an error, never a silent reuse),
//     exact sizing, read/write shared mapping, header write.
//
// Implementation:
//   - Stage 1: validate name and shape; compute the invariant size.
//   - Stage 2: open O_CREATE|O_EXCL, ftruncate, mmap MAP_SHARED.
//   - Stage 3: write the header and bind the data view.
//
// Any failure after the file exists unmaps, closes and unlinks before
// returning, so a failed Create leaves nothing behind.
//
// Errors:
//   - matrix.ErrInvalidDimensions, ErrResource (wrapping the OS error).
func Create(dir, name string, rows, cols int) (*Segment, error) {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return nil, fmt.Errorf("Create(%q): invalid name: %w", name, ErrResource)
	}
	size, err := SizeFor(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("Create(%s): %w", name, err)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("Create(%s): open: %w: %w", name, ErrResource, err)
	}
	fail := func(stage string, cause error) (*Segment, error) {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("Create(%s): %s: %w: %w", name, stage, ErrResource, cause)
	}
	if err = sizeFile(f, size); err != nil {
		return fail("truncate", err)
	}
	mem, err := mapFile(f, size, true)
	if err != nil {
		return fail("mmap", err)
	}

	binary.NativeEndian.PutUint64(mem[0:8], uint64(rows))
	binary.NativeEndian.PutUint64(mem[8:16], uint64(cols))

	s := &Segment{
		name:     name,
		path:     path,
		file:     f,
		mem:      mem,
		rows:     rows,
		cols:     cols,
		owner:    true,
		writable: true,
	}
	s.bind()

	return s, nil
}

// Attach maps an already created segment from an open descriptor, typically
// one inherited from the orchestrating process. The segment takes ownership
// of f: Close closes it, but never unlinks the name.
//
// Errors: ErrResource (stat/mmap), ErrCorruptHeader (size/header disagreement).
func Attach(f *os.File, writable bool) (*Segment, error) {
	if f == nil {
		return nil, fmt.Errorf("Attach: nil file: %w", ErrResource)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("Attach(%s): stat: %w: %w", f.Name(), ErrResource, err)
	}
	size := int(fi.Size())
	if size < HeaderSize {
		return nil, fmt.Errorf("Attach(%s): %d bytes: %w", f.Name(), size, ErrCorruptHeader)
	}
	mem, err := mapFile(f, size, writable)
	if err != nil {
		return nil, fmt.Errorf("Attach(%s): mmap: %w: %w", f.Name(), ErrResource, err)
	}

	rows := int(int64(binary.NativeEndian.Uint64(mem[0:8])))
	cols := int(int64(binary.NativeEndian.Uint64(mem[8:16])))
	want, err := SizeFor(rows, cols)
	if err != nil || want != size {
		_ = unmapFile(mem)
		return nil, fmt.Errorf("Attach(%s): header %dx%d, file %d bytes: %w", f.Name(), rows, cols, size, ErrCorruptHeader)
	}

	s := &Segment{
		name:     filepath.Base(f.Name()),
		path:     f.Name(),
		file:     f,
		mem:      mem,
		rows:     rows,
		cols:     cols,
		writable: writable,
	}
	s.bind()

	return s, nil
}

// bind points the float64 view at the data region of the mapping.
func (s *Segment) bind() {
	s.data = unsafe.Slice((*float64)(unsafe.Pointer(&s.mem[HeaderSize])), s.rows*s.cols)
}

// Name returns the segment name (the file name inside its directory).
func (s *Segment) Name() string { return s.name }

// Path returns the full path of the segment in the shared-memory directory.
func (s *Segment) Path() string { return s.path }

// File returns the open descriptor backing the mapping, for handing to a child process.
func (s *Segment) File() *os.File { return s.file }

// Rows returns the row count from the header.
func (s *Segment) Rows() int { return s.rows }

// Cols returns the column count from the header.
func (s *Segment) Cols() int { return s.cols }

// Size returns the byte size of the segment, header included.
func (s *Segment) Size() int { return len(s.mem) }

// Owner reports whether this process created the segment (and unlinks it on Close).
func (s *Segment) Owner() bool { return s.owner }

// offset bounds-checks (row, col) and returns the flat index into data.
func (s *Segment) offset(method string, row, col int) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("Segment.%s(%d,%d): %w", method, row, col, ErrClosed)
	}
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return 0, fmt.Errorf("Segment.%s(%d,%d): %w", method, row, col, matrix.ErrOutOfRange)
	}

	return row*s.cols + col, nil
}

// At returns the element at (row, col).
// Errors: matrix.ErrOutOfRange, ErrClosed.
func (s *Segment) At(row, col int) (float64, error) {
	off, err := s.offset("At", row, col)
	if err != nil {
		return 0, err
	}

	return s.data[off], nil
}

// Set stores v at (row, col).
// Errors: matrix.ErrOutOfRange, ErrClosed, ErrReadOnly.
func (s *Segment) Set(row, col int, v float64) error {
	off, err := s.offset("Set", row, col)
	if err != nil {
		return err
	}
	if !s.writable {
		return fmt.Errorf("Segment.Set(%d,%d): %w", row, col, ErrReadOnly)
	}
	s.data[off] = v

	return nil
}

// Row returns row i as a slice aliasing the shared mapping (no copy).
// The slice is invalid after Close.
func (s *Segment) Row(i int) ([]float64, error) {
	if _, err := s.offset("Row", i, 0); err != nil {
		return nil, err
	}

	return s.data[i*s.cols : (i+1)*s.cols : (i+1)*s.cols], nil
}

// Data returns the whole rows*cols data region (aliasing the mapping), or
// nil once the segment is closed.
func (s *Segment) Data() []float64 {
	if s.closed {
		return nil
	}

	return s.data
}

// Close unmaps the segment, closes its descriptor and, when this process
// created it, removes its name. Only the first call does work; later calls
// and calls on a nil *Segment return nil.
func (s *Segment) Close() error {
	if s == nil {
		return nil
	}
	var closeErr error
	s.closeOnce.Do(func() {
		s.closed = true
		s.data = nil

		var err error
		if s.mem != nil {
			err = multierr.Append(err, unmapFile(s.mem))
			s.mem = nil
		}
		if s.file != nil {
			err = multierr.Append(err, s.file.Close())
		}
		if s.owner {
			if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = multierr.Append(err, rmErr)
			}
		}
		if err != nil {
			closeErr = fmt.Errorf("Segment.Close(%s): %w", s.name, err)
		}
	})

	return closeErr
}
