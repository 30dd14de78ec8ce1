package tamarin_test

import (
	"fmt"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFrameSchemaValidate(t *testing.T) {
	mem := memory.NewGoAllocator()

	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn("name", tamarin.String),
		tamarin.NewColumn("age", tamarin.Int,
			tamarin.WithChecks(tamarin.InRange(int64(0), int64(150)))),
		tamarin.NewColumn("score", tamarin.Float, tamarin.Nullable(true)),
	})
	require.NoError(t, err)

	t.Run("valid frame passes", func(t *testing.T) {
		df := tamarin.NewDataFrame(
			tamarin.NewSeries("name", []string{"alice", "bob"}, mem),
			tamarin.NewSeries("age", []int64{30, 25}, mem),
			tamarin.NewSeriesWithNulls("score", []float64{9.5, 0}, []bool{true, false}, mem),
		)
		defer df.Release()

		validated, err := schema.Validate(df)
		require.NoError(t, err)
		assert.Equal(t, df.Len(), validated.Len())
	})

	t.Run("out-of-range value fails", func(t *testing.T) {
		df := tamarin.NewDataFrame(
			tamarin.NewSeries("name", []string{"carol"}, mem),
			tamarin.NewSeries("age", []int64{200}, mem),
			tamarin.NewSeries("score", []float64{1}, mem),
		)
		defer df.Release()

		_, err := schema.Validate(df)
		require.Error(t, err)

		se, ok := err.(*tamarin.SchemaError)
		require.True(t, ok)
		assert.Equal(t, "age", se.Column)
		assert.Equal(t, "in_range(0, 150)", se.Check)
	})
}

func TestValidateReturnsCoercedFrame(t *testing.T) {
	mem := memory.NewGoAllocator()

	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn("count", tamarin.Int, tamarin.Coerce(true)),
	})
	require.NoError(t, err)

	df := tamarin.NewDataFrame(
		tamarin.NewSeries("count", []float64{1, 2, 3}, mem),
	)
	defer df.Release()

	validated, err := schema.Validate(df)
	require.NoError(t, err)

	col, ok := validated.Column("count")
	require.True(t, ok)
	assert.True(t, arrow.TypeEqual(tamarin.Int, col.DataType()))
	assert.Equal(t, int64(3), col.ValueAt(2))
}

func TestValidateLazyReportsEverything(t *testing.T) {
	mem := memory.NewGoAllocator()

	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn("id", tamarin.Int, tamarin.AllowDuplicates(false)),
		tamarin.NewColumn("name", tamarin.String),
	}, tamarin.Strict(true))
	require.NoError(t, err)

	df := tamarin.NewDataFrame(
		tamarin.NewSeries("id", []int64{1, 1, 2}, mem),
		tamarin.NewSeries("extra", []bool{true, false, true}, mem),
	)
	defer df.Release()

	_, err = schema.Validate(df, tamarin.Lazy())
	require.Error(t, err)

	agg, ok := err.(*tamarin.SchemaErrors)
	require.True(t, ok)

	checks := make(map[string]bool)
	for _, r := range agg.Records {
		checks[r.Check] = true
	}
	assert.True(t, checks["column_in_dataframe"], "missing 'name' column")
	assert.True(t, checks["field_uniqueness"], "duplicate id")
	assert.True(t, checks["column_in_schema"], "'extra' not declared under strict")
	assert.Contains(t, agg.Error(), fmt.Sprintf("A total of %d schema errors were found:", len(agg.Records)))
}

func TestValidateRegexColumnGroup(t *testing.T) {
	mem := memory.NewGoAllocator()

	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn(`^foo_\d+$`, tamarin.Float, tamarin.Regex(true),
			tamarin.WithChecks(tamarin.GreaterThanOrEqual(float64(0)))),
	})
	require.NoError(t, err)

	cols := make([]tamarin.ISeries, 0, 5)
	for i := 0; i < 5; i++ {
		cols = append(cols, tamarin.NewSeries(
			fmt.Sprintf("foo_%d", i), []float64{float64(i), float64(i + 1)}, mem))
	}
	df := tamarin.NewDataFrame(cols...)
	defer df.Release()

	_, err = schema.Validate(df)
	assert.NoError(t, err)

	t.Run("failure names the matched column", func(t *testing.T) {
		bad := tamarin.NewDataFrame(
			tamarin.NewSeries("foo_0", []float64{1}, mem),
			tamarin.NewSeries("foo_1", []float64{-1}, mem),
		)
		defer bad.Release()

		_, err := schema.Validate(bad)
		se, ok := err.(*tamarin.SchemaError)
		require.True(t, ok)
		assert.Equal(t, "foo_1", se.Column)
	})
}

func TestValidateHeadOfLargeFrame(t *testing.T) {
	mem := memory.NewGoAllocator()

	// First 100 rows valid, the remaining 1000 negative.
	values := make([]int64, 1100)
	for i := range values {
		if i < 100 {
			values[i] = int64(i + 1)
		} else {
			values[i] = -1
		}
	}

	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn("v", tamarin.Int, tamarin.WithChecks(tamarin.GreaterThan(int64(0)))),
	})
	require.NoError(t, err)

	df := tamarin.NewDataFrame(tamarin.NewSeries("v", values, mem))
	defer df.Release()

	validated, err := schema.Validate(df, tamarin.Head(100))
	require.NoError(t, err)
	assert.Equal(t, 1100, validated.Len())

	_, err = schema.Validate(df, tamarin.Tail(100))
	assert.Error(t, err)
}

func TestSeriesSchemaValidate(t *testing.T) {
	mem := memory.NewGoAllocator()

	schema, err := tamarin.NewSeriesSchema(tamarin.String,
		tamarin.WithChecks(tamarin.IsIn([]any{"red", "green", "blue"})))
	require.NoError(t, err)

	s := tamarin.NewSeries("color", []string{"red", "blue"}, mem)
	defer s.Release()

	_, err = schema.Validate(s)
	assert.NoError(t, err)

	bad := tamarin.NewSeries("color", []string{"red", "yellow"}, mem)
	defer bad.Release()

	_, err = schema.Validate(bad)
	se, ok := err.(*tamarin.SchemaError)
	require.True(t, ok)
	assert.Equal(t, "isin([red, green, blue])", se.Check)
}

func TestIndexValidation(t *testing.T) {
	mem := memory.NewGoAllocator()

	schema, err := tamarin.NewDataFrameSchema(
		[]*tamarin.Column{tamarin.NewColumn("v", tamarin.Int)},
		tamarin.WithIndex(tamarin.NewIndex(tamarin.String,
			tamarin.Named("label"), tamarin.AllowDuplicates(false))),
	)
	require.NoError(t, err)

	df := tamarin.NewDataFrame(
		tamarin.NewSeries("v", []int64{1, 2}, mem),
	).WithIndex(tamarin.NewSeries("label", []string{"a", "b"}, mem))

	_, err = schema.Validate(df)
	assert.NoError(t, err)

	dup := tamarin.NewDataFrame(
		tamarin.NewSeries("v", []int64{1, 2}, mem),
	).WithIndex(tamarin.NewSeries("label", []string{"a", "a"}, mem))

	_, err = schema.Validate(dup)
	se, ok := err.(*tamarin.SchemaError)
	require.True(t, ok)
	assert.Equal(t, tamarin.ContextIndex, se.Context)
	assert.Equal(t, "field_uniqueness", se.Check)
}

func TestCustomChecks(t *testing.T) {
	mem := memory.NewGoAllocator()

	even := tamarin.ElementwiseCheck(func(v any) bool {
		return v.(int64)%2 == 0
	}, tamarin.CheckName("is_even"), tamarin.CheckError("value must be even"))

	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn("v", tamarin.Int, tamarin.WithChecks(even)),
	})
	require.NoError(t, err)

	df := tamarin.NewDataFrame(tamarin.NewSeries("v", []int64{2, 3, 4}, mem))
	defer df.Release()

	_, err = schema.Validate(df)
	se, ok := err.(*tamarin.SchemaError)
	require.True(t, ok)
	assert.Equal(t, "is_even", se.Check)
	assert.Contains(t, se.Message, "value must be even")
	require.Len(t, se.Cases, 1)
	assert.Equal(t, 1, se.Cases[0].Row)
	assert.Equal(t, "3", se.Cases[0].FailureCase)
}

func TestTableWideCheck(t *testing.T) {
	mem := memory.NewGoAllocator()

	balanced := tamarin.TableCheck(func(df *tamarin.DataFrame) tamarin.CheckResult {
		debit, _ := df.Column("debit")
		credit, _ := df.Column("credit")
		vector := make([]bool, df.Len())
		for i := range vector {
			vector[i] = debit.ValueAt(i).(int64) == credit.ValueAt(i).(int64)
		}
		return tamarin.VectorResult(vector)
	}, tamarin.CheckName("balanced"))

	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn("debit", tamarin.Int),
		tamarin.NewColumn("credit", tamarin.Int),
	}, tamarin.WithTableChecks(balanced))
	require.NoError(t, err)

	df := tamarin.NewDataFrame(
		tamarin.NewSeries("debit", []int64{10, 20}, mem),
		tamarin.NewSeries("credit", []int64{10, 25}, mem),
	)
	defer df.Release()

	_, err = schema.Validate(df)
	se, ok := err.(*tamarin.SchemaError)
	require.True(t, ok)
	assert.Equal(t, tamarin.ContextDataFrameSchema, se.Context)
	require.Len(t, se.Cases, 1)
	assert.Equal(t, 1, se.Cases[0].Row)
}

func TestSchemaBuilders(t *testing.T) {
	schema, err := tamarin.NewDataFrameSchema([]*tamarin.Column{
		tamarin.NewColumn("a", tamarin.Int),
	})
	require.NoError(t, err)

	grown, err := schema.AddColumns(tamarin.NewColumn("b", tamarin.String))
	require.NoError(t, err)
	assert.Len(t, grown.Columns(), 2)

	relaxed, err := grown.UpdateColumn("a", tamarin.Nullable(true))
	require.NoError(t, err)
	col, _ := relaxed.Column("a")
	assert.True(t, col.Spec().Nullable())

	shrunk, err := relaxed.RemoveColumns("b")
	require.NoError(t, err)
	assert.Len(t, shrunk.Columns(), 1)

	assert.False(t, schema.Equal(grown))
	assert.Len(t, schema.Columns(), 1) // builders never mutate the receiver
}
