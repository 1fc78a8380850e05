// SPDX-License-Identifier: MIT

// Package mtxio reads and writes matrices as whitespace-separated text, one
// row per line.
//
// Reading skips blank lines and rejects ragged rows, empty input and
// non-finite values. Writing separates values with single spaces, ends every
// row with '\n' and never emits a trailing separator.
package mtxio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/shmmul/matrix"
)

// DefaultPrecision is the number of significant digits written by default.
const DefaultPrecision = 6

// FullPrecision asks Write for the shortest representation that round-trips.
const FullPrecision = -1

var (
	// ErrFile is matched by every error of this package.
	ErrFile = errors.New("mtxio: matrix file error")

	// ErrParse reports a token that is not a finite number.
	ErrParse = fmt.Errorf("%w: invalid number", ErrFile)

	// ErrRaggedRows reports rows with differing value counts.
	ErrRaggedRows = fmt.Errorf("%w: inconsistent column count", ErrFile)

	// ErrEmpty reports input without a single non-blank line.
	ErrEmpty = fmt.Errorf("%w: no rows", ErrFile)
)

// Read parses a matrix from r.
// Errors: ErrParse and ErrRaggedRows (with the 1-based line number), ErrEmpty,
// or ErrFile wrapping a read error.
func Read(r io.Reader) (*matrix.Dense, error) {
	var (
		br   = bufio.NewReader(r)
		rows [][]float64
		line int
	)
	for {
		text, rerr := br.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrFile, rerr)
		}
		if text != "" {
			line++
			fields := strings.Fields(text)
			if len(fields) > 0 {
				row, err := parseRow(fields, line)
				if err != nil {
					return nil, err
				}
				if len(rows) > 0 && len(row) != len(rows[0]) {
					return nil, fmt.Errorf("line %d: %d values, want %d: %w", line, len(row), len(rows[0]), ErrRaggedRows)
				}
				rows = append(rows, row)
			}
		}
		if rerr != nil {
			break
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	m, err := matrix.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFile, err)
	}

	return m, nil
}

func parseRow(fields []string, line int) ([]float64, error) {
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("line %d, column %d: %q: %w", line, i+1, f, ErrParse)
		}
		row[i] = v
	}

	return row, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFile, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Write formats m to w. precision is the number of significant digits, or
// FullPrecision for shortest round-trip output.
func Write(w io.Writer, m matrix.Matrix, precision int) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("%w: %w", ErrFile, err)
	}
	bw := bufio.NewWriter(w)
	var (
		buf  []byte
		i, j int
	)
	for i = 0; i < m.Rows(); i++ {
		buf = buf[:0]
		for j = 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrFile, err)
			}
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, v, 'g', precision, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("%w: %w", ErrFile, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrFile, err)
	}

	return nil
}

// WriteFile creates (or truncates) path and writes m into it.
func WriteFile(path string, m matrix.Matrix, precision int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrFile, cerr)
		}
	}()

	return Write(f, m, precision)
}
