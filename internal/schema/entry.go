package schema

import (
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/errors"
)

// Standalone validation entry points. Each schema level is usable on its own
// against a frame, with the same eager/lazy semantics as a full table
// validation.

// Validate checks just this column against a frame. Regex specs resolve
// against the frame's columns exactly as they would inside a table schema.
func (c *Column) Validate(df *dataframe.DataFrame, opts ...ValidateOption) (*dataframe.DataFrame, error) {
	if c.Name() == "" {
		return nil, errors.NewSchemaInitError("cannot validate a column spec without a name")
	}
	if err := c.spec.checkInit(false); err != nil {
		return nil, err
	}
	s := &DataFrameSchema{
		columns: map[string]*Column{c.Name(): c},
		order:   []string{c.Name()},
	}
	return s.Validate(df, opts...)
}

// Validate checks a frame's row labels against this index spec
func (ix *Index) Validate(df *dataframe.DataFrame, opts ...ValidateOption) (*dataframe.DataFrame, error) {
	return validateIndexOnly(ix, df, opts)
}

// Validate checks a frame's row labels against this composite index spec,
// level by level
func (mi *MultiIndex) Validate(df *dataframe.DataFrame, opts ...ValidateOption) (*dataframe.DataFrame, error) {
	return validateIndexOnly(mi, df, opts)
}

func validateIndexOnly(spec IndexSpec, df *dataframe.DataFrame, opts []ValidateOption) (*dataframe.DataFrame, error) {
	options := collectValidateOptions(opts)
	s := &DataFrameSchema{index: spec}

	for _, levelSpec := range s.indexLevelSpecs() {
		if err := levelSpec.checkInit(false); err != nil {
			return nil, err
		}
	}

	validated, err := s.coerceResolved(df, nil, options.mem)
	if err != nil {
		return nil, err
	}

	rows := selectRows(validated.Len(), options)
	checked := validated
	if rows != nil {
		checked = validated.Take(rows, options.mem)
	}

	records, err := s.validateIndex(checked, rows, options)
	if err != nil {
		if se, ok := err.(*errors.SchemaError); ok {
			se.Data = indexData(df)
		}
		return nil, err
	}
	if len(records) > 0 {
		return nil, &errors.SchemaErrors{Records: records, Data: indexData(df)}
	}
	return validated, nil
}

// indexData picks the failing-data object attached to index validation
// errors: the single index level when there is exactly one, otherwise the
// frame itself
func indexData(df *dataframe.DataFrame) any {
	if levels := df.IndexLevels(); len(levels) == 1 {
		return levels[0]
	}
	return df
}
