// Package tamarin provides declarative schema validation for Arrow-backed
// DataFrames. This package is the sole public API for the library.
//
// A schema declares, per column and index level, the expected type,
// nullability, uniqueness, coercion behavior and an ordered list of checks.
// Validating a frame either returns it (coerced where requested) or reports
// every violation: eagerly on the first failure, or lazily as one aggregate
// error carrying the untouched input and every failure found.
package tamarin

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin/internal/checks"
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/errors"
	"github.com/paveg/tamarin/internal/schema"
	"github.com/paveg/tamarin/internal/series"
)

// Data model

// ISeries provides a type-erased interface for Series of any type
type ISeries = dataframe.ISeries

// DataFrame represents a table of data with typed columns and an optional
// row index
type DataFrame = dataframe.DataFrame

// NewDataFrame creates a new DataFrame from ISeries
func NewDataFrame(cols ...ISeries) *DataFrame {
	return dataframe.New(cols...)
}

// NewSeries creates a new typed Series from values
func NewSeries[T any](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// NewSeriesWithNulls creates a new typed Series from values and a validity
// mask; a false entry marks the position as missing
func NewSeriesWithNulls[T any](name string, values []T, valid []bool, mem memory.Allocator) ISeries {
	return series.NewWithNulls(name, values, valid, mem)
}

// Declared data types accepted by schema specs
var (
	Int     = arrow.PrimitiveTypes.Int64
	Int32   = arrow.PrimitiveTypes.Int32
	Float   = arrow.PrimitiveTypes.Float64
	Float32 = arrow.PrimitiveTypes.Float32
	String  = arrow.BinaryTypes.String
	Bool    = arrow.FixedWidthTypes.Boolean
)

// Schema surface

// DataFrameSchema declares expectations for a whole table
type DataFrameSchema = schema.DataFrameSchema

// SeriesSchema declares expectations for a bare series
type SeriesSchema = schema.SeriesSchema

// Column declares expectations for one table column or a regex column group
type Column = schema.Column

// Index declares expectations for a single-level row index
type Index = schema.Index

// MultiIndex declares expectations for a composite row index
type MultiIndex = schema.MultiIndex

// IndexSpec is either an *Index or a *MultiIndex
type IndexSpec = schema.IndexSpec

// Option configures a column, index or series spec
type Option = schema.Option

// SchemaOption configures table-level schema properties
type SchemaOption = schema.SchemaOption

// ValidateOption configures a single validation run
type ValidateOption = schema.ValidateOption

// Schema constructors
var (
	NewDataFrameSchema = schema.New
	NewColumn          = schema.NewColumn
	NewIndex           = schema.NewIndex
	NewMultiIndex      = schema.NewMultiIndex
	NewSeriesSchema    = schema.NewSeriesSchema
)

// Spec options
var (
	WithType        = schema.WithType
	WithChecks      = schema.WithChecks
	Nullable        = schema.Nullable
	AllowDuplicates = schema.AllowDuplicates
	Coerce          = schema.Coerce
	Required        = schema.Required
	Regex           = schema.Regex
	Named           = schema.Named
)

// Schema-level options
var (
	WithIndex       = schema.WithIndex
	WithTableChecks = schema.WithTableChecks
	Strict          = schema.Strict
	CoerceAll       = schema.CoerceAll
)

// Validation options
var (
	Head          = schema.Head
	Tail          = schema.Tail
	Sample        = schema.Sample
	RandomState   = schema.RandomState
	Lazy          = schema.Lazy
	WithAllocator = schema.WithAllocator
)

// Checks

// Check is a named predicate bound to an evaluation granularity
type Check = checks.Check

// CheckResult is the outcome of one check evaluation: a boolean vector, a
// scalar boolean, or an evaluation error
type CheckResult = checks.Result

// CheckOption configures a Check at construction time
type CheckOption = checks.Option

// Custom check constructors
var (
	ElementwiseCheck = checks.Elementwise
	SeriesCheck      = checks.Series
	TableCheck       = checks.Table
)

// Check result constructors
var (
	VectorResult = checks.VectorResult
	ScalarResult = checks.ScalarResult
	ErrorResult  = checks.ErrorResult
)

// Check configuration
var (
	CheckName     = checks.WithName
	CheckError    = checks.WithError
	CheckIgnoreNA = checks.WithIgnoreNA
)

// Built-in checks
var (
	GreaterThan        = checks.GreaterThan
	GreaterThanOrEqual = checks.GreaterThanOrEqual
	LessThan           = checks.LessThan
	LessThanOrEqual    = checks.LessThanOrEqual
	EqualTo            = checks.EqualTo
	NotEqualTo         = checks.NotEqualTo
	InRange            = checks.InRange
	IsIn               = checks.IsIn
	NotIn              = checks.NotIn
	StrStartsWith      = checks.StrStartsWith
	StrEndsWith        = checks.StrEndsWith
	StrContains        = checks.StrContains
	StrMatches         = checks.StrMatches
)

// Errors

// SchemaInitError represents a schema construction-time contract violation
type SchemaInitError = errors.SchemaInitError

// SchemaError represents a single validation failure
type SchemaError = errors.SchemaError

// SchemaErrors is the aggregate raised after a full lazy validation pass
type SchemaErrors = errors.SchemaErrors

// CoercionError represents an unrecoverable raw type-conversion failure
type CoercionError = errors.CoercionError

// FailureRecord is one attributable validation failure
type FailureRecord = errors.FailureRecord

// Schema context values used in failure records
const (
	ContextDataFrameSchema = errors.ContextDataFrameSchema
	ContextSeriesSchema    = errors.ContextSeriesSchema
	ContextColumn          = errors.ContextColumn
	ContextIndex           = errors.ContextIndex
	ContextMultiIndex      = errors.ContextMultiIndex
)

// NoRow marks failure records that cannot be attributed to a row position
const NoRow = errors.NoRow
