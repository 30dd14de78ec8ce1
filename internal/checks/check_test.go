package checks

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementwiseEvaluate(t *testing.T) {
	check := Elementwise(func(v any) bool {
		return v.(int64) > 0
	}, WithName("positive"))

	assert.Equal(t, "positive", check.Name())
	assert.Equal(t, KindElementwise, check.Kind())
	assert.True(t, check.IgnoreNA())

	result := check.Evaluate([]any{int64(1), int64(-2), int64(3)})
	require.True(t, result.IsVector())
	assert.Equal(t, []bool{true, false, true}, result.Vector())
	assert.False(t, result.Passed())

	result = check.Evaluate([]any{int64(1)})
	assert.True(t, result.Passed())
}

func TestElementwisePanicBecomesError(t *testing.T) {
	check := Elementwise(func(v any) bool {
		return v.(string) != "" // panics on non-string input
	})

	result := check.Evaluate([]any{int64(1)})
	require.Error(t, result.Err())
	assert.Contains(t, result.Err().Error(), "check evaluation panicked")
	assert.False(t, result.Passed())
}

func TestSeriesCheck(t *testing.T) {
	t.Run("scalar result", func(t *testing.T) {
		check := Series(func(values []any) Result {
			return ScalarResult(len(values) >= 2)
		}, WithName("min_size"))

		assert.Equal(t, KindSeries, check.Kind())

		result := check.Evaluate([]any{int64(1), int64(2)})
		require.True(t, result.IsScalar())
		assert.True(t, result.Scalar())
		assert.True(t, result.Passed())

		result = check.Evaluate([]any{int64(1)})
		assert.False(t, result.Passed())
	})

	t.Run("vector result", func(t *testing.T) {
		check := Series(func(values []any) Result {
			vector := make([]bool, len(values))
			for i := range values {
				vector[i] = i%2 == 0
			}
			return VectorResult(vector)
		})

		result := check.Evaluate([]any{int64(1), int64(2), int64(3)})
		assert.Equal(t, []bool{true, false, true}, result.Vector())
	})

	t.Run("panic becomes error", func(t *testing.T) {
		check := Series(func(values []any) Result {
			panic("boom")
		})

		result := check.Evaluate([]any{int64(1)})
		require.Error(t, result.Err())
		assert.Contains(t, result.Err().Error(), "boom")
	})
}

func TestTableCheck(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := dataframe.New(
		series.New("a", []int64{1, 2}, mem),
		series.New("b", []int64{2, 1}, mem),
	)
	defer df.Release()

	check := Table(func(df *dataframe.DataFrame) Result {
		a, _ := df.Column("a")
		b, _ := df.Column("b")
		vector := make([]bool, df.Len())
		for i := range vector {
			vector[i] = a.ValueAt(i).(int64) < b.ValueAt(i).(int64)
		}
		return VectorResult(vector)
	}, WithName("a_lt_b"))

	assert.Equal(t, KindTable, check.Kind())

	result := check.EvaluateTable(df)
	assert.Equal(t, []bool{true, false}, result.Vector())

	t.Run("kind mismatch", func(t *testing.T) {
		assert.Error(t, check.Evaluate([]any{int64(1)}).Err())
		elem := Elementwise(func(any) bool { return true })
		assert.Error(t, elem.EvaluateTable(df).Err())
	})
}

func TestCheckOptions(t *testing.T) {
	check := GreaterThan(int64(0),
		WithName("must_be_positive"),
		WithError("value must be positive"),
		WithIgnoreNA(false),
	)

	assert.Equal(t, "must_be_positive", check.Name())
	assert.Equal(t, "value must be positive", check.ErrorMessage())
	assert.False(t, check.IgnoreNA())

	plain := GreaterThan(int64(0))
	assert.Equal(t, "greater_than(0)", plain.ErrorMessage())
}

func TestCheckEqual(t *testing.T) {
	assert.True(t, GreaterThan(int64(5)).Equal(GreaterThan(int64(5))))
	assert.False(t, GreaterThan(int64(5)).Equal(GreaterThan(int64(6))))
	assert.False(t, GreaterThan(int64(5)).Equal(LessThan(int64(5))))
	assert.False(t, GreaterThan(int64(5)).Equal(GreaterThan(int64(5), WithIgnoreNA(false))))
	assert.False(t, GreaterThan(int64(5)).Equal(nil))
}

func TestBuiltinComparisons(t *testing.T) {
	tests := []struct {
		name     string
		check    *Check
		values   []any
		expected []bool
	}{
		{"greater_than", GreaterThan(int64(2)), []any{int64(1), int64(2), int64(3)}, []bool{false, false, true}},
		{"greater_than_or_equal", GreaterThanOrEqual(int64(2)), []any{int64(1), int64(2), int64(3)}, []bool{false, true, true}},
		{"less_than", LessThan(int64(2)), []any{int64(1), int64(2), int64(3)}, []bool{true, false, false}},
		{"less_than_or_equal", LessThanOrEqual(int64(2)), []any{int64(1), int64(2), int64(3)}, []bool{true, true, false}},
		{"equal_to", EqualTo(int64(2)), []any{int64(1), int64(2)}, []bool{false, true}},
		{"not_equal_to", NotEqualTo(int64(2)), []any{int64(1), int64(2)}, []bool{true, false}},
		{"in_range", InRange(int64(1), int64(3)), []any{int64(0), int64(1), int64(3), int64(4)}, []bool{false, true, true, false}},
		{"cross-type numeric", GreaterThan(float64(1.5)), []any{int64(1), int64(2)}, []bool{false, true}},
		{"string ordering", LessThan("m"), []any{"apple", "zebra"}, []bool{true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.check.Evaluate(tt.values)
			require.NoError(t, result.Err())
			assert.Equal(t, tt.expected, result.Vector())
		})
	}
}

func TestComparisonTypeMismatch(t *testing.T) {
	result := GreaterThan(int64(0)).Evaluate([]any{"not a number"})
	assert.Error(t, result.Err())
}

func TestBuiltinNames(t *testing.T) {
	tests := []struct {
		check    *Check
		expected string
	}{
		{GreaterThan(int64(5)), "greater_than(5)"},
		{GreaterThanOrEqual(float64(1.5)), "greater_than_or_equal_to(1.5)"},
		{LessThan(int64(10)), "less_than(10)"},
		{EqualTo("x"), "equal_to(x)"},
		{InRange(int64(0), int64(10)), "in_range(0, 10)"},
		{IsIn([]any{int64(1), int64(2)}), "isin([1, 2])"},
		{NotIn([]any{"a"}), "notin([a])"},
		{StrStartsWith("foo"), `str_startswith("foo")`},
		{StrMatches("^a+$"), `str_matches("^a+$")`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.check.Name())
	}
}

func TestMembershipChecks(t *testing.T) {
	isIn := IsIn([]any{int64(1), int64(2), int64(3)})
	result := isIn.Evaluate([]any{int64(2), int64(5)})
	assert.Equal(t, []bool{true, false}, result.Vector())

	notIn := NotIn([]any{"x", "y"})
	result = notIn.Evaluate([]any{"x", "z"})
	assert.Equal(t, []bool{false, true}, result.Vector())
}

func TestStringChecks(t *testing.T) {
	tests := []struct {
		name     string
		check    *Check
		values   []any
		expected []bool
	}{
		{"starts_with", StrStartsWith("ab"), []any{"abc", "bcd"}, []bool{true, false}},
		{"ends_with", StrEndsWith("yz"), []any{"xyz", "xy"}, []bool{true, false}},
		{"contains", StrContains("el"), []any{"hello", "world"}, []bool{true, false}},
		{"matches", StrMatches(`^\d+$`), []any{"123", "12a"}, []bool{true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.check.Evaluate(tt.values)
			require.NoError(t, result.Err())
			assert.Equal(t, tt.expected, result.Vector())
		})
	}

	t.Run("non-string value", func(t *testing.T) {
		result := StrContains("x").Evaluate([]any{int64(1)})
		assert.Error(t, result.Err())
	})

	t.Run("invalid pattern", func(t *testing.T) {
		result := StrMatches("[unclosed").Evaluate([]any{"x"})
		assert.Error(t, result.Err())
	})
}

func TestResultVariants(t *testing.T) {
	vector := VectorResult([]bool{true, false})
	assert.True(t, vector.IsVector())
	assert.False(t, vector.IsScalar())
	assert.False(t, vector.Passed())

	allTrue := VectorResult([]bool{true, true})
	assert.True(t, allTrue.Passed())

	scalar := ScalarResult(true)
	assert.True(t, scalar.IsScalar())
	assert.True(t, scalar.Passed())
	assert.False(t, ScalarResult(false).Passed())

	failed := ErrorResult(errors.New("eval failed"))
	assert.Error(t, failed.Err())
	assert.False(t, failed.Passed())
}

func TestFailureCases(t *testing.T) {
	values := []any{int64(10), int64(20), int64(30)}
	rows := []int{5, 6, 7}

	t.Run("vector false positions", func(t *testing.T) {
		cases := FailureCases(VectorResult([]bool{true, false, false}), values, rows, "q")
		require.Len(t, cases, 2)
		assert.Equal(t, FailureCase{Row: 6, Value: "20"}, cases[0])
		assert.Equal(t, FailureCase{Row: 7, Value: "30"}, cases[1])
	})

	t.Run("vector all pass", func(t *testing.T) {
		cases := FailureCases(VectorResult([]bool{true, true, true}), values, rows, "q")
		assert.Empty(t, cases)
	})

	t.Run("nil rows fall back to positions", func(t *testing.T) {
		cases := FailureCases(VectorResult([]bool{false, true, false}), values, nil, "q")
		require.Len(t, cases, 2)
		assert.Equal(t, 0, cases[0].Row)
		assert.Equal(t, 2, cases[1].Row)
	})

	t.Run("scalar true", func(t *testing.T) {
		assert.Empty(t, FailureCases(ScalarResult(true), values, rows, "q"))
	})

	t.Run("scalar false covers all rows", func(t *testing.T) {
		cases := FailureCases(ScalarResult(false), values, rows, "q")
		require.Len(t, cases, 3)
		assert.Equal(t, FailureCase{Row: 5, Value: "10"}, cases[0])
		assert.Equal(t, FailureCase{Row: 7, Value: "30"}, cases[2])
	})

	t.Run("scalar false with no selection", func(t *testing.T) {
		cases := FailureCases(ScalarResult(false), nil, nil, "table_check")
		require.Len(t, cases, 1)
		assert.Equal(t, -1, cases[0].Row)
		assert.Equal(t, "table_check", cases[0].Value)
	})

	t.Run("evaluation error", func(t *testing.T) {
		cases := FailureCases(ErrorResult(errors.New("bad predicate")), values, rows, "q")
		require.Len(t, cases, 1)
		assert.Equal(t, -1, cases[0].Row)
		assert.Equal(t, "bad predicate", cases[0].Value)
	})

	t.Run("vector length mismatch", func(t *testing.T) {
		cases := FailureCases(VectorResult([]bool{false}), values, rows, "q")
		require.Len(t, cases, 1)
		assert.Equal(t, -1, cases[0].Row)
		assert.Contains(t, cases[0].Value, "length 1, expected 3")
	})

	t.Run("table check vector with row map", func(t *testing.T) {
		cases := FailureCases(VectorResult([]bool{false, true}), nil, []int{3, 4}, "table_check")
		require.Len(t, cases, 1)
		assert.Equal(t, 3, cases[0].Row)
		assert.Equal(t, "table_check", cases[0].Value)
	})
}
