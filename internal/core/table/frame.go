package table

import (
	"fmt"
	"strings"
)

// Frame is a generic in-memory table: an ordered list of named columns and
// rows of string cells. It is the decoded form of an uploaded order export;
// everything downstream of the upload boundary works on a Frame and never
// touches file formats.
type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New creates an empty Frame with the given column names.
// Column names must be non-empty and unique after trimming.
func New(cols []string) (*Frame, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("frame requires at least one column")
	}

	cleaned := make([]string, len(cols))
	index := make(map[string]int, len(cols))
	for i, col := range cols {
		name := strings.TrimSpace(col)
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		cleaned[i] = name
		index[name] = i
	}

	return &Frame{cols: cleaned, index: index}, nil
}

// AppendRow appends one row of cells. The cell count must match the column count.
func (f *Frame) AppendRow(cells []string) error {
	if len(cells) != len(f.cols) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(cells), len(f.cols))
	}
	f.rows = append(f.rows, cells)
	return nil
}

// Columns returns a copy of the column names in declaration order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// ColumnIndex returns the position of the named column.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	idx, ok := f.index[name]
	return idx, ok
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int {
	return len(f.rows)
}

// Row returns the cells of row i. The returned slice must not be modified.
func (f *Frame) Row(i int) []string {
	return f.rows[i]
}

// Cell returns the value at (row, column name).
func (f *Frame) Cell(row int, col string) (string, bool) {
	idx, ok := f.index[col]
	if !ok || row < 0 || row >= len(f.rows) {
		return "", false
	}
	return f.rows[row][idx], true
}

// Head returns up to n leading rows, for previews.
func (f *Frame) Head(n int) [][]string {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(f.rows[i]))
		copy(row, f.rows[i])
		out[i] = row
	}
	return out
}
