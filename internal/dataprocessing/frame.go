package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNoRows is returned for an empty input
	ErrNoRows = errors.New("no rows")
	// ErrNoDataRows is returned when only a header row is present
	ErrNoDataRows = errors.New("no data rows")
)

// Frame is a date-indexed table of numeric columns. A NaN marks a missing
// or non-numeric cell.
type Frame struct {
	// Index holds one timestamp per row; nil when no date column was found
	Index []time.Time
	// IndexName is the source column of the index ("date" for wide files)
	IndexName string
	Columns   []string
	Values    map[string][]float64
	// Skipped lists source columns dropped because they were not numeric
	Skipped []string
}

// NewFrame builds a frame from an index and equally long columns
func NewFrame(index []time.Time, columns []string, values map[string][]float64) (*Frame, error) {
	f := &Frame{Index: index, IndexName: "date", Columns: columns, Values: values}
	n := -1
	if index != nil {
		n = len(index)
	}
	for _, c := range columns {
		col, ok := values[c]
		if !ok {
			return nil, fmt.Errorf("column %q has no values", c)
		}
		if n >= 0 && len(col) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", c, len(col), n)
		}
		n = len(col)
	}
	return f, nil
}

// Len returns the number of rows
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	if f.Index != nil {
		return len(f.Index)
	}
	for _, c := range f.Columns {
		return len(f.Values[c])
	}
	return 0
}

// Shape returns (rows, columns)
func (f *Frame) Shape() (int, int) {
	return f.Len(), len(f.Columns)
}

// HasIndex reports whether rows carry timestamps
func (f *Frame) HasIndex() bool {
	return f != nil && f.Index != nil
}

// HasColumn reports whether name is a value column
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.Values[name]
	return ok
}

// Column returns a column's values
func (f *Frame) Column(name string) ([]float64, error) {
	col, ok := f.Values[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return col, nil
}

// Head returns a frame holding the first n rows. The slices are shared.
func (f *Frame) Head(n int) *Frame {
	if n > f.Len() {
		n = f.Len()
	}
	if n < 0 {
		n = 0
	}
	head := &Frame{IndexName: f.IndexName, Columns: f.Columns, Values: make(map[string][]float64, len(f.Columns)), Skipped: f.Skipped}
	if f.Index != nil {
		head.Index = f.Index[:n]
	}
	for _, c := range f.Columns {
		head.Values[c] = f.Values[c][:n]
	}
	return head
}

// RowLabel formats row i's index value, or its position when there is no index
func (f *Frame) RowLabel(i int) string {
	if f.Index != nil {
		return FormatDate(f.Index[i])
	}
	return fmt.Sprintf("%d", i)
}

// dropColumnsWithNaN removes any column holding a NaN
func (f *Frame) dropColumnsWithNaN() {
	kept := f.Columns[:0]
	for _, c := range f.Columns {
		if hasNaN(f.Values[c]) {
			delete(f.Values, c)
			continue
		}
		kept = append(kept, c)
	}
	f.Columns = kept
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
