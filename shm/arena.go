// SPDX-License-Identifier: MIT

package shm

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// NamePrefix starts every segment name created through an Arena.
const NamePrefix = "shmmul"

// DefaultDir returns the directory used for segments when none is configured:
// /dev/shm when it exists, the OS temp directory otherwise.
func DefaultDir() string {
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return "/dev/shm"
	}

	return os.TempDir()
}

// Arena owns every segment of one invocation.
//
// Names are unique per Arena: "<NamePrefix>-<pid>-<unixnano>-<uuid8>-<role>",
// so concurrent runs never collide in the shared namespace. Close releases
// every segment the Arena created, on every exit path; defer it right after
// NewArena.
type Arena struct {
	dir    string
	prefix string

	mu       sync.Mutex
	segments []*Segment
	closed   bool
}

// NewArena prepares an Arena rooted at dir ("" selects DefaultDir).
// No segment exists until Create is called.
func NewArena(dir string) (*Arena, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("NewArena(%s): %w: %w", dir, ErrResource, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("NewArena(%s): not a directory: %w", dir, ErrResource)
	}

	return &Arena{
		dir:    dir,
		prefix: fmt.Sprintf("%s-%d-%d-%s", NamePrefix, os.Getpid(), time.Now().UnixNano(), uuid.NewString()[:8]),
	}, nil
}

// Dir returns the shared-memory directory of the Arena.
func (a *Arena) Dir() string { return a.dir }

// Prefix returns the unique name prefix shared by all segments of the Arena.
func (a *Arena) Prefix() string { return a.prefix }

// Create allocates a segment named "<prefix>-<role>" and registers it for release.
func (a *Arena) Create(role string, rows, cols int) (*Segment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, fmt.Errorf("Arena.Create(%s): %w", role, ErrClosed)
	}

	s, err := Create(a.dir, a.prefix+"-"+role, rows, cols)
	if err != nil {
		return nil, err
	}
	a.segments = append(a.segments, s)

	return s, nil
}

// Segments returns the live segments in creation order.
func (a *Arena) Segments() []*Segment {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]*Segment(nil), a.segments...)
}

// Close releases every segment (unmap + unlink), combining all errors.
// Safe to call more than once, and on a nil *Arena.
func (a *Arena) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	var err error
	for _, s := range a.segments {
		err = multierr.Append(err, s.Close())
	}
	a.segments = nil

	return err
}
