// Package common provides type conversion and comparison utilities shared by
// the coercion and check layers.
package common

import (
	"fmt"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
)

// Convert converts a type-erased series value to the Go representation of the
// target Arrow type. Lossy conversions are errors, never silent truncations.
func Convert(value any, target arrow.DataType) (any, error) {
	switch target.ID() {
	case arrow.INT64:
		return ToInt64(value)
	case arrow.INT32:
		v, err := ToInt64(value)
		if err != nil {
			return nil, err
		}
		if v > math.MaxInt32 || v < math.MinInt32 {
			return nil, fmt.Errorf("value %d overflows int32", v)
		}
		return int32(v), nil
	case arrow.FLOAT64:
		return ToFloat64(value)
	case arrow.FLOAT32:
		v, err := ToFloat64(value)
		if err != nil {
			return nil, err
		}
		if !math.IsInf(v, 0) && !math.IsNaN(v) && math.Abs(v) > math.MaxFloat32 {
			return nil, fmt.Errorf("value %g overflows float32", v)
		}
		return float32(v), nil
	case arrow.STRING:
		return ToString(value)
	case arrow.BOOL:
		return ToBool(value)
	default:
		return nil, fmt.Errorf("unsupported target type: %s", target.Name())
	}
}

// ToInt64 converts numeric, string and boolean values to int64.
// Fractional floats are rejected rather than truncated.
func ToInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("cannot convert %g to int64", v)
		}
		if math.Trunc(v) != v {
			return 0, fmt.Errorf("cannot convert %g to int64 without loss", v)
		}
		if v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("value %g overflows int64", v)
		}
		return int64(v), nil
	case float32:
		return ToInt64(float64(v))
	case string:
		return strconv.ParseInt(v, 10, 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", value)
	}
}

// ToFloat64 converts numeric and string values to float64
func ToFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// ToString renders any supported series value as a string
func ToString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", value)
	}
}

// ToBool converts boolean-like values to bool
func ToBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	case int64:
		return v != 0, nil
	case int32:
		return v != 0, nil
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

// Compare orders two type-erased series values. It returns a negative, zero
// or positive result like strings.Compare. Numeric values compare across
// integer and float representations; anything else must match in kind.
func Compare(a, b any) (int, error) {
	switch av := a.(type) {
	case int64, int32, float64, float32:
		af, err := ToFloat64(a)
		if err != nil {
			return 0, err
		}
		bf, err := ToFloat64(b)
		if err != nil {
			return 0, fmt.Errorf("cannot compare %T with %T", a, b)
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %T", b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, fmt.Errorf("cannot compare bool with %T", b)
		}
		switch {
		case av == bv:
			return 0, nil
		case !av:
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return 0, fmt.Errorf("cannot compare %T values", a)
	}
}

// IsIntegral reports whether a float value carries no fractional part
func IsIntegral(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Trunc(v) == v
}
