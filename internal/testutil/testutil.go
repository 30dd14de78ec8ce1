// Package testutil provides common helpers for building test series and
// frames across the validation test files.
package testutil

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/series"
)

// Ints builds an int64 series with no missing values
func Ints(name string, values ...int64) dataframe.ISeries {
	return series.New(name, values, memory.NewGoAllocator())
}

// IntsWithNulls builds an int64 series; a false entry in valid marks the
// position as missing
func IntsWithNulls(name string, values []int64, valid []bool) dataframe.ISeries {
	return series.NewWithNulls(name, values, valid, memory.NewGoAllocator())
}

// Floats builds a float64 series with no missing values
func Floats(name string, values ...float64) dataframe.ISeries {
	return series.New(name, values, memory.NewGoAllocator())
}

// FloatsWithNulls builds a float64 series with a validity mask
func FloatsWithNulls(name string, values []float64, valid []bool) dataframe.ISeries {
	return series.NewWithNulls(name, values, valid, memory.NewGoAllocator())
}

// Strings builds a string series with no missing values
func Strings(name string, values ...string) dataframe.ISeries {
	return series.New(name, values, memory.NewGoAllocator())
}

// StringsWithNulls builds a string series with a validity mask
func StringsWithNulls(name string, values []string, valid []bool) dataframe.ISeries {
	return series.NewWithNulls(name, values, valid, memory.NewGoAllocator())
}

// Bools builds a boolean series with no missing values
func Bools(name string, values ...bool) dataframe.ISeries {
	return series.New(name, values, memory.NewGoAllocator())
}

// Frame builds a DataFrame from the given columns
func Frame(cols ...dataframe.ISeries) *dataframe.DataFrame {
	return dataframe.New(cols...)
}
