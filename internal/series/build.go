package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Build constructs a series of the given Arrow type from type-erased values.
// A nil entry marks a missing value. Non-nil entries must already hold the Go
// type matching dtype; anything else is a construction error.
func Build(name string, values []any, dtype arrow.DataType, mem memory.Allocator) (any, error) {
	switch dtype.ID() {
	case arrow.STRING:
		return buildTyped[string](name, values, mem)
	case arrow.INT64:
		return buildTyped[int64](name, values, mem)
	case arrow.INT32:
		return buildTyped[int32](name, values, mem)
	case arrow.FLOAT64:
		return buildTyped[float64](name, values, mem)
	case arrow.FLOAT32:
		return buildTyped[float32](name, values, mem)
	case arrow.BOOL:
		return buildTyped[bool](name, values, mem)
	default:
		return nil, fmt.Errorf("unsupported target type: %s", dtype.Name())
	}
}

func buildTyped[T any](name string, values []any, mem memory.Allocator) (*Series[T], error) {
	typed := make([]T, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		tv, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("value %v (%T) does not fit target element type %T", v, v, typed[i])
		}
		typed[i] = tv
		valid[i] = true
	}
	return NewWithNulls(name, typed, valid, mem), nil
}
