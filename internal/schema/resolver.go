package schema

import (
	"regexp"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/errors"
)

// Check identifiers for column-membership failures
const (
	checkColumnInDataFrame = "column_in_dataframe"
	checkColumnInSchema    = "column_in_schema"
)

// resolvedColumn binds a declared spec to one actual frame column. A regex
// spec resolves to one entry per matched column, all sharing the spec.
type resolvedColumn struct {
	name string
	col  *Column
}

// resolveColumns maps declared column specs to actual frame columns.
// Iteration is deterministic: declared specs in declaration order, and within
// a regex spec, matched columns in the frame's column order. A non-required
// spec matching nothing is dropped silently; a required one is a failure.
func resolveColumns(s *DataFrameSchema, df *dataframe.DataFrame) ([]resolvedColumn, []*errors.SchemaError) {
	frameColumns := df.Columns()

	var resolved []resolvedColumn
	var failures []*errors.SchemaError

	for _, name := range s.order {
		col := s.columns[name]

		if col.IsRegex() {
			matches, err := matchPattern(name, frameColumns)
			if err != nil {
				failures = append(failures, &errors.SchemaError{
					Context: errors.ContextDataFrameSchema,
					Column:  name,
					Check:   checkColumnInDataFrame,
					Message: "invalid column pattern '" + name + "': " + err.Error(),
				})
				continue
			}
			if len(matches) == 0 {
				if col.Required() {
					failures = append(failures, missingColumnError(
						name, "column pattern '"+name+"' matched no columns in dataframe"))
				}
				continue
			}
			for _, match := range matches {
				resolved = append(resolved, resolvedColumn{name: match, col: col})
			}
			continue
		}

		if !df.HasColumn(name) {
			if col.Required() {
				failures = append(failures, missingColumnError(
					name, "column '"+name+"' required but not in dataframe"))
			}
			continue
		}
		resolved = append(resolved, resolvedColumn{name: name, col: col})
	}

	return resolved, failures
}

func missingColumnError(name, message string) *errors.SchemaError {
	return &errors.SchemaError{
		Context: errors.ContextDataFrameSchema,
		Column:  name,
		Check:   checkColumnInDataFrame,
		Message: message,
		Cases: []errors.FailureRecord{{
			Context:     errors.ContextDataFrameSchema,
			Column:      name,
			Check:       checkColumnInDataFrame,
			FailureCase: name,
			Row:         errors.NoRow,
		}},
	}
}

// checkStrict reports every frame column not matched by any declared spec.
// Only meaningful when the schema is strict.
func checkStrict(df *dataframe.DataFrame, resolved []resolvedColumn) []*errors.SchemaError {
	matched := make(map[string]bool, len(resolved))
	for _, rc := range resolved {
		matched[rc.name] = true
	}

	var failures []*errors.SchemaError
	for _, name := range df.Columns() {
		if matched[name] {
			continue
		}
		failures = append(failures, &errors.SchemaError{
			Context: errors.ContextDataFrameSchema,
			Column:  name,
			Check:   checkColumnInSchema,
			Message: "column '" + name + "' in dataframe but not in schema",
			Cases: []errors.FailureRecord{{
				Context:     errors.ContextDataFrameSchema,
				Column:      name,
				Check:       checkColumnInSchema,
				FailureCase: name,
				Row:         errors.NoRow,
			}},
		})
	}
	return failures
}

func matchPattern(pattern string, columns []string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, name := range columns {
		if re.MatchString(name) {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

// ResolvedDTypes returns the declared type per column after resolving regex
// specs against a concrete frame
func (s *DataFrameSchema) ResolvedDTypes(df *dataframe.DataFrame) map[string]arrow.DataType {
	resolved, _ := resolveColumns(s, df)
	out := make(map[string]arrow.DataType, len(resolved))
	for _, rc := range resolved {
		out[rc.name] = rc.col.spec.dtype
	}
	return out
}
