// Package series provides typed, null-aware data columns backed by Apache Arrow
package series

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Series represents a typed data column with Apache Arrow backend
type Series[T any] struct {
	name  string
	array arrow.Array
}

// New creates a new Series from a slice of values with no missing entries
func New[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	return NewWithNulls(name, values, nil, mem)
}

// NewWithNulls creates a new Series from values and a validity mask. A false
// entry in valid marks the position as missing. A nil mask means all values
// are present.
func NewWithNulls[T any](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var arr arrow.Array

	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		appendValues(builder.Append, builder.AppendNull, v, valid)
		arr = builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		appendValues(builder.Append, builder.AppendNull, v, valid)
		arr = builder.NewArray()
	case []int32:
		builder := array.NewInt32Builder(mem)
		defer builder.Release()
		appendValues(builder.Append, builder.AppendNull, v, valid)
		arr = builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		appendValues(builder.Append, builder.AppendNull, v, valid)
		arr = builder.NewArray()
	case []float32:
		builder := array.NewFloat32Builder(mem)
		defer builder.Release()
		appendValues(builder.Append, builder.AppendNull, v, valid)
		arr = builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		appendValues(builder.Append, builder.AppendNull, v, valid)
		arr = builder.NewArray()
	default:
		panic(fmt.Sprintf("unsupported type: %T", values))
	}

	return &Series[T]{
		name:  name,
		array: arr,
	}
}

// appendValues feeds a typed builder, honoring the validity mask
func appendValues[T any](appendVal func(T), appendNull func(), values []T, valid []bool) {
	for i, val := range values {
		if valid != nil && i < len(valid) && !valid[i] {
			appendNull()
			continue
		}
		appendVal(val)
	}
}

// FromArray wraps an existing Arrow array as a Series, retaining a reference
func FromArray[T any](name string, arr arrow.Array) *Series[T] {
	arr.Retain()
	return &Series[T]{name: name, array: arr}
}

// Name returns the column name
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the length of the series
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Values returns the data as a Go slice. Missing positions hold the zero value.
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())

	switch arr := s.array.(type) {
	case *array.String:
		copyValues(any(result).([]string), arr.Len(), arr.IsNull, arr.Value)
	case *array.Int64:
		copyValues(any(result).([]int64), arr.Len(), arr.IsNull, arr.Value)
	case *array.Int32:
		copyValues(any(result).([]int32), arr.Len(), arr.IsNull, arr.Value)
	case *array.Float64:
		copyValues(any(result).([]float64), arr.Len(), arr.IsNull, arr.Value)
	case *array.Float32:
		copyValues(any(result).([]float32), arr.Len(), arr.IsNull, arr.Value)
	case *array.Boolean:
		copyValues(any(result).([]bool), arr.Len(), arr.IsNull, arr.Value)
	default:
		panic(fmt.Sprintf("unsupported array type: %T", arr))
	}

	return result
}

// copyValues fills dst from a typed Arrow accessor, skipping nulls
func copyValues[T any](dst []T, length int, isNull func(int) bool, value func(int) T) {
	for i := 0; i < length; i++ {
		if !isNull(i) {
			dst[i] = value(i)
		}
	}
}

// Value returns the typed value at the given index
func (s *Series[T]) Value(index int) T {
	var zero T
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return zero
	}
	if v, ok := ValueAt(s.array, index).(T); ok {
		return v
	}
	return zero
}

// ValueAt returns the type-erased value at index, or nil for missing values
func (s *Series[T]) ValueAt(index int) any {
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return nil
	}
	return ValueAt(s.array, index)
}

// GetAsString returns the string rendering of the value at index
func (s *Series[T]) GetAsString(index int) string {
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return "null"
	}
	return FormatValue(ValueAt(s.array, index))
}

// DataType returns the Arrow data type
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull checks if the value at index is null
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// NullCount returns the number of missing values
func (s *Series[T]) NullCount() int {
	return s.array.NullN()
}

// String returns a string representation of the series
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d, nulls=%d)",
		s.array.DataType().Name(), s.name, s.Len(), s.NullCount())
}

// Array returns the underlying Arrow array (retains a reference)
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}

// ValueAt extracts the type-erased value at index from an Arrow array.
// The caller is responsible for bounds and null handling.
func ValueAt(arr arrow.Array, index int) any {
	switch typed := arr.(type) {
	case *array.String:
		return typed.Value(index)
	case *array.Int64:
		return typed.Value(index)
	case *array.Int32:
		return typed.Value(index)
	case *array.Float64:
		return typed.Value(index)
	case *array.Float32:
		return typed.Value(index)
	case *array.Boolean:
		return typed.Value(index)
	default:
		panic(fmt.Sprintf("unsupported array type: %T", arr))
	}
}

// FormatValue renders a type-erased series value for failure reports
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
