// Package dataframe provides the tabular data model validated by schemas
package dataframe

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin/internal/series"
)

// DataFrame represents a table of data with typed columns and an optional
// row index of one or more levels
type DataFrame struct {
	columns map[string]ISeries
	order   []string // maintains column order
	index   []ISeries
}

// New creates a new DataFrame from a slice of ISeries
func New(cols ...ISeries) *DataFrame {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(cols))

	for _, s := range cols {
		name := s.Name()
		columns[name] = s
		order = append(order, name)
	}

	return &DataFrame{
		columns: columns,
		order:   order,
	}
}

// WithIndex returns a new DataFrame sharing this frame's columns with the
// given index levels attached
func (df *DataFrame) WithIndex(levels ...ISeries) *DataFrame {
	out := df.shallowCopy()
	out.index = append([]ISeries(nil), levels...)
	return out
}

// WithColumn returns a new DataFrame with the named column replaced (or
// appended when absent). The original frame is not modified.
func (df *DataFrame) WithColumn(name string, col ISeries) *DataFrame {
	out := df.shallowCopy()
	if _, exists := out.columns[name]; !exists {
		out.order = append(out.order, name)
	}
	out.columns[name] = col
	return out
}

// WithIndexLevel returns a new DataFrame with the index level at position i
// replaced. Out-of-range positions return the frame unchanged.
func (df *DataFrame) WithIndexLevel(i int, level ISeries) *DataFrame {
	if i < 0 || i >= len(df.index) {
		return df
	}
	out := df.shallowCopy()
	out.index = append([]ISeries(nil), df.index...)
	out.index[i] = level
	return out
}

func (df *DataFrame) shallowCopy() *DataFrame {
	columns := make(map[string]ISeries, len(df.columns))
	for name, col := range df.columns {
		columns[name] = col
	}
	return &DataFrame{
		columns: columns,
		order:   append([]string(nil), df.order...),
		index:   df.index,
	}
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows (assumes all columns have same length)
func (df *DataFrame) Len() int {
	if len(df.order) > 0 {
		if col, exists := df.columns[df.order[0]]; exists {
			return col.Len()
		}
	}
	if len(df.index) > 0 {
		return df.index[0].Len()
	}
	return 0
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Column returns the series for the given column name
func (df *DataFrame) Column(name string) (ISeries, bool) {
	col, exists := df.columns[name]
	return col, exists
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// IndexLevels returns the index levels attached to this frame. An empty
// result means the frame carries the implicit positional index.
func (df *DataFrame) IndexLevels() []ISeries {
	return df.index
}

// RangeIndex builds the implicit positional index for a frame of n rows
func RangeIndex(n int, mem memory.Allocator) ISeries {
	values := make([]int64, n)
	for i := range values {
		values[i] = int64(i)
	}
	return series.New("", values, mem)
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}

	for _, name := range df.order {
		col := df.columns[name]
		parts = append(parts, fmt.Sprintf("  %s: %s", name, col.DataType().String()))
	}
	for i, level := range df.index {
		parts = append(parts, fmt.Sprintf("  <index %d> %s: %s", i, level.Name(), level.DataType().String()))
	}

	return strings.Join(parts, "\n")
}

// RowString renders one row for failure reports, joining column values in order
func (df *DataFrame) RowString(row int) string {
	parts := make([]string, 0, len(df.order))
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("%s=%s", name, df.columns[name].GetAsString(row)))
	}
	return strings.Join(parts, ", ")
}

// Release releases all underlying Arrow memory
func (df *DataFrame) Release() {
	for _, col := range df.columns {
		col.Release()
	}
	for _, level := range df.index {
		level.Release()
	}
}
