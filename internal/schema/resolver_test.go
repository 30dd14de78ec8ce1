package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/tamarin/internal/errors"
	"github.com/paveg/tamarin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns(t *testing.T) {
	df := testutil.Frame(
		testutil.Ints("id", 1, 2),
		testutil.Floats("foo_1", 1.0, 2.0),
		testutil.Floats("foo_2", 3.0, 4.0),
		testutil.Strings("name", "a", "b"),
	)
	defer df.Release()

	t.Run("literal columns in declaration order", func(t *testing.T) {
		s, err := New([]*Column{
			NewColumn("name", arrow.BinaryTypes.String),
			NewColumn("id", arrow.PrimitiveTypes.Int64),
		})
		require.NoError(t, err)

		resolved, failures := resolveColumns(s, df)
		assert.Empty(t, failures)
		require.Len(t, resolved, 2)
		assert.Equal(t, "name", resolved[0].name)
		assert.Equal(t, "id", resolved[1].name)
	})

	t.Run("regex expands in frame order", func(t *testing.T) {
		s, err := New([]*Column{
			NewColumn(`^foo_\d+$`, arrow.PrimitiveTypes.Float64, Regex(true)),
		})
		require.NoError(t, err)

		resolved, failures := resolveColumns(s, df)
		assert.Empty(t, failures)
		require.Len(t, resolved, 2)
		assert.Equal(t, "foo_1", resolved[0].name)
		assert.Equal(t, "foo_2", resolved[1].name)
		assert.Same(t, resolved[0].col, resolved[1].col)
	})

	t.Run("required column missing", func(t *testing.T) {
		s, err := New([]*Column{NewColumn("missing", arrow.PrimitiveTypes.Int64)})
		require.NoError(t, err)

		resolved, failures := resolveColumns(s, df)
		assert.Empty(t, resolved)
		require.Len(t, failures, 1)
		assert.Equal(t, checkColumnInDataFrame, failures[0].Check)
		assert.Equal(t, "missing", failures[0].Column)
		assert.Contains(t, failures[0].Message, "required but not in dataframe")
	})

	t.Run("optional column missing is silent", func(t *testing.T) {
		s, err := New([]*Column{NewColumn("missing", arrow.PrimitiveTypes.Int64, Required(false))})
		require.NoError(t, err)

		resolved, failures := resolveColumns(s, df)
		assert.Empty(t, resolved)
		assert.Empty(t, failures)
	})

	t.Run("required regex matching nothing", func(t *testing.T) {
		s, err := New([]*Column{NewColumn(`^bar_\d+$`, arrow.PrimitiveTypes.Float64, Regex(true))})
		require.NoError(t, err)

		_, failures := resolveColumns(s, df)
		require.Len(t, failures, 1)
		assert.Contains(t, failures[0].Message, "matched no columns")
	})

	t.Run("optional regex matching nothing is silent", func(t *testing.T) {
		s, err := New([]*Column{NewColumn(`^bar_\d+$`, arrow.PrimitiveTypes.Float64, Regex(true), Required(false))})
		require.NoError(t, err)

		resolved, failures := resolveColumns(s, df)
		assert.Empty(t, resolved)
		assert.Empty(t, failures)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		s, err := New([]*Column{NewColumn("[unclosed", arrow.PrimitiveTypes.Float64, Regex(true))})
		require.NoError(t, err)

		_, failures := resolveColumns(s, df)
		require.Len(t, failures, 1)
		assert.Contains(t, failures[0].Message, "invalid column pattern")
	})
}

func TestCheckStrict(t *testing.T) {
	df := testutil.Frame(
		testutil.Ints("a", 1),
		testutil.Ints("b", 2),
		testutil.Ints("c", 3),
	)
	defer df.Release()

	resolved := []resolvedColumn{{name: "a", col: NewColumn("a", arrow.PrimitiveTypes.Int64)}}

	failures := checkStrict(df, resolved)
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Equal(t, checkColumnInSchema, f.Check)
		assert.Equal(t, errors.ContextDataFrameSchema, f.Context)
	}
	assert.Equal(t, "b", failures[0].Column)
	assert.Equal(t, "c", failures[1].Column)
}

func TestResolvedDTypes(t *testing.T) {
	df := testutil.Frame(
		testutil.Floats("foo_1", 1.0),
		testutil.Floats("foo_2", 2.0),
		testutil.Ints("id", 1),
	)
	defer df.Release()

	s, err := New([]*Column{
		NewColumn("id", arrow.PrimitiveTypes.Int64),
		NewColumn(`^foo_\d+$`, arrow.PrimitiveTypes.Float64, Regex(true)),
	})
	require.NoError(t, err)

	dtypes := s.ResolvedDTypes(df)
	require.Len(t, dtypes, 3)
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Int64, dtypes["id"]))
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Float64, dtypes["foo_1"]))
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Float64, dtypes["foo_2"]))
}
