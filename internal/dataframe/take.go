package dataframe

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin/internal/series"
)

// Take returns a new DataFrame containing the given row positions, in the
// given order. Columns and index levels are copied into independent memory;
// the source frame is left untouched. Out-of-range positions are skipped.
func (df *DataFrame) Take(rows []int, mem memory.Allocator) *DataFrame {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	taken := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		taken = append(taken, TakeSeries(df.columns[name], rows, mem))
	}
	out := New(taken...)

	if len(df.index) > 0 {
		levels := make([]ISeries, 0, len(df.index))
		for _, level := range df.index {
			levels = append(levels, TakeSeries(level, rows, mem))
		}
		out.index = levels
	}
	return out
}

// TakeSeries copies the given row positions of a series into a new series of
// the same type, preserving nulls
func TakeSeries(s ISeries, rows []int, mem memory.Allocator) ISeries {
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		if row < 0 || row >= s.Len() {
			continue
		}
		values = append(values, s.ValueAt(row)) // nil for null positions
	}

	built, err := series.Build(s.Name(), values, s.DataType(), mem)
	if err != nil {
		// Take never changes element types, so Build only fails for
		// unsupported dtypes, which New would have rejected already.
		panic(err)
	}
	return built.(ISeries)
}

// Equal reports whether two frames hold the same columns, in the same order,
// with the same types, values and null positions, and the same index
func (df *DataFrame) Equal(other *DataFrame) bool {
	if other == nil || len(df.order) != len(other.order) || df.Len() != other.Len() {
		return false
	}
	for i, name := range df.order {
		if other.order[i] != name {
			return false
		}
		if !seriesEqual(df.columns[name], other.columns[name]) {
			return false
		}
	}
	if len(df.index) != len(other.index) {
		return false
	}
	for i, level := range df.index {
		if !seriesEqual(level, other.index[i]) {
			return false
		}
	}
	return true
}

func seriesEqual(a, b ISeries) bool {
	if a.Len() != b.Len() || a.Name() != b.Name() || !arrow.TypeEqual(a.DataType(), b.DataType()) {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) != b.IsNull(i) {
			return false
		}
		if !a.IsNull(i) && a.ValueAt(i) != b.ValueAt(i) {
			return false
		}
	}
	return true
}
