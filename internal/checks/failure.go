package checks

import (
	"fmt"

	"github.com/paveg/tamarin/internal/errors"
)

// FailureCase is one (row, value) pair rejected by a check
type FailureCase struct {
	Row   int    // original row position, or errors.NoRow
	Value string // representation of the offending value
}

// FailureCases extracts the minimal set of offending rows from a check
// result.
//
// values holds the evaluated values and rows their original row positions;
// both may be nil for table-level checks, in which case the qualifier stands
// in for per-row values. Rules:
//   - boolean vector: every position holding false
//   - scalar false: every position in the checked selection
//   - scalar true: no failures
//   - evaluation error: one failure whose value is the error's description
func FailureCases(result Result, values []any, rows []int, qualifier string) []FailureCase {
	switch {
	case result.Err() != nil:
		return []FailureCase{{Row: errors.NoRow, Value: result.Err().Error()}}
	case result.IsScalar():
		if result.Scalar() {
			return nil
		}
		if len(values) == 0 && len(rows) == 0 {
			return []FailureCase{{Row: errors.NoRow, Value: qualifier}}
		}
		cases := make([]FailureCase, 0, max(len(values), len(rows)))
		for i := 0; i < max(len(values), len(rows)); i++ {
			cases = append(cases, FailureCase{Row: rowAt(rows, i), Value: valueAt(values, i, qualifier)})
		}
		return cases
	default:
		vector := result.Vector()
		if values != nil && len(vector) != len(values) {
			err := fmt.Errorf(
				"check returned boolean vector of length %d, expected %d", len(vector), len(values))
			return []FailureCase{{Row: errors.NoRow, Value: err.Error()}}
		}
		var cases []FailureCase
		for i, ok := range vector {
			if !ok {
				cases = append(cases, FailureCase{Row: rowAt(rows, i), Value: valueAt(values, i, qualifier)})
			}
		}
		return cases
	}
}

func rowAt(rows []int, i int) int {
	if rows == nil {
		return i
	}
	if i < len(rows) {
		return rows[i]
	}
	return errors.NoRow
}

func valueAt(values []any, i int, qualifier string) string {
	if values == nil || i >= len(values) {
		return qualifier
	}
	return formatValue(values[i])
}
