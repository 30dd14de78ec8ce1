package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cespare/xxhash/v2"
	"github.com/paveg/tamarin/internal/checks"
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/errors"
)

// seriesTarget adapts one schema level (bare series, column, index level) to
// the shared series validator: a typed sequence, an attribution context and
// name, and the spec to enforce.
type seriesTarget struct {
	context   string // errors.Context* value for failure attribution
	name      string // column or index name used in reports
	series    dataframe.ISeries
	spec      *SeriesSpec
	rows      []int // original row position per element; nil means identity
	matchName bool  // enforce that the series carries the declared name
}

func (t seriesTarget) rowAt(i int) int {
	if t.rows == nil {
		return i
	}
	if i >= 0 && i < len(t.rows) {
		return t.rows[i]
	}
	return errors.NoRow
}

// validateSeries runs every validation step against one target. In eager mode
// the first failing step returns immediately; in lazy mode all steps run and
// every failure is reported, later steps tolerating already-invalid data.
func validateSeries(t seriesTarget, lazy bool) ([]errors.FailureRecord, error) {
	steps := []func(seriesTarget) []*errors.SchemaError{
		checkSeriesName,
		checkNullability,
		checkType,
		checkUniqueness,
		runSeriesChecks,
	}

	var records []errors.FailureRecord
	for _, step := range steps {
		for _, failure := range step(t) {
			if !lazy {
				return nil, failure
			}
			records = append(records, failure.Records()...)
		}
	}
	return records, nil
}

// checkSeriesName enforces the declared name when the caller asserts the
// schema must match an existing series name
func checkSeriesName(t seriesTarget) []*errors.SchemaError {
	if !t.matchName || t.spec.name == "" || t.series.Name() == t.spec.name {
		return nil
	}
	check := fmt.Sprintf("field_name('%s')", t.spec.name)
	return []*errors.SchemaError{{
		Context: t.context,
		Column:  t.name,
		Check:   check,
		Message: fmt.Sprintf("expected series to have name '%s', got '%s'",
			t.spec.name, t.series.Name()),
		Cases: []errors.FailureRecord{{
			Context:     t.context,
			Column:      t.name,
			Check:       check,
			FailureCase: t.series.Name(),
			Row:         errors.NoRow,
		}},
	}}
}

// checkNullability reports every missing value of a non-nullable series
func checkNullability(t seriesTarget) []*errors.SchemaError {
	if t.spec.nullable || t.series.NullCount() == 0 {
		return nil
	}
	var cases []errors.FailureRecord
	for i := 0; i < t.series.Len(); i++ {
		if t.series.IsNull(i) {
			cases = append(cases, errors.FailureRecord{
				Context:     t.context,
				Column:      t.name,
				Check:       "not_nullable",
				FailureCase: "null",
				Row:         t.rowAt(i),
			})
		}
	}
	return []*errors.SchemaError{{
		Context: t.context,
		Column:  t.name,
		Check:   "not_nullable",
		Message: fmt.Sprintf("non-nullable series '%s' contains null values", t.name),
		Cases:   cases,
	}}
}

// checkType enforces the declared data type. A nullable integer spec accepts
// a float series whose non-null values are all integral, since missing values
// force integer data into a float representation.
func checkType(t seriesTarget) []*errors.SchemaError {
	declared := t.spec.dtype
	if declared == nil {
		return nil
	}
	actual := t.series.DataType()
	if arrow.TypeEqual(actual, declared) {
		return nil
	}

	check := fmt.Sprintf("dtype('%s')", declared.Name())

	if t.spec.nullable && isIntegerType(declared) && isFloatType(actual) {
		nonIntegral := nonIntegralRows(t.series)
		if len(nonIntegral) == 0 {
			return nil
		}
		cases := make([]errors.FailureRecord, 0, len(nonIntegral))
		for _, i := range nonIntegral {
			cases = append(cases, errors.FailureRecord{
				Context:     t.context,
				Column:      t.name,
				Check:       check,
				FailureCase: t.series.GetAsString(i),
				Row:         t.rowAt(i),
			})
		}
		return []*errors.SchemaError{{
			Context: t.context,
			Column:  t.name,
			Check:   check,
			Message: fmt.Sprintf(
				"after dropping null values, expected values in series '%s' to be %s, got %s",
				t.name, declared.Name(), actual.Name()),
			Cases: cases,
		}}
	}

	return []*errors.SchemaError{{
		Context: t.context,
		Column:  t.name,
		Check:   check,
		Message: fmt.Sprintf("expected series '%s' to have type %s, got %s",
			t.name, declared.Name(), actual.Name()),
		Cases: []errors.FailureRecord{{
			Context:     t.context,
			Column:      t.name,
			Check:       check,
			FailureCase: actual.Name(),
			Row:         errors.NoRow,
		}},
	}}
}

// checkUniqueness reports the set of duplicated values as one failure
func checkUniqueness(t seriesTarget) []*errors.SchemaError {
	if t.spec.allowDuplicates {
		return nil
	}
	dups := duplicateRows(t.series)
	if len(dups) == 0 {
		return nil
	}

	values := make([]string, 0, len(dups))
	cases := make([]errors.FailureRecord, 0, len(dups))
	for _, i := range dups {
		value := t.series.GetAsString(i)
		values = append(values, value)
		cases = append(cases, errors.FailureRecord{
			Context:     t.context,
			Column:      t.name,
			Check:       "field_uniqueness",
			FailureCase: value,
			Row:         t.rowAt(i),
		})
	}
	return []*errors.SchemaError{{
		Context: t.context,
		Column:  t.name,
		Check:   "field_uniqueness",
		Message: fmt.Sprintf("series '%s' contains duplicate values: [%s]",
			t.name, strings.Join(values, ", ")),
		Cases: cases,
	}}
}

// runSeriesChecks evaluates every declared check, in declaration order,
// against the non-missing values only
func runSeriesChecks(t seriesTarget) []*errors.SchemaError {
	if len(t.spec.checks) == 0 {
		return nil
	}

	var values []any
	var rows []int
	for i := 0; i < t.series.Len(); i++ {
		if t.series.IsNull(i) {
			continue
		}
		values = append(values, t.series.ValueAt(i))
		rows = append(rows, t.rowAt(i))
	}

	var failures []*errors.SchemaError
	for _, check := range t.spec.checks {
		result := check.Evaluate(values)
		cases := checks.FailureCases(result, values, rows, check.ErrorMessage())
		if len(cases) == 0 {
			continue
		}
		failures = append(failures, checkFailure(t.context, t.name, check, result, cases))
	}
	return failures
}

// checkFailure converts extracted failure cases into one attributed error
func checkFailure(
	context, name string, check *checks.Check, result checks.Result, cases []checks.FailureCase,
) *errors.SchemaError {
	records := make([]errors.FailureRecord, 0, len(cases))
	for _, fc := range cases {
		records = append(records, errors.FailureRecord{
			Context:     context,
			Column:      name,
			Check:       check.Name(),
			FailureCase: fc.Value,
			Row:         fc.Row,
		})
	}

	message := fmt.Sprintf("check '%s' failed (%d failure cases)", check.ErrorMessage(), len(cases))
	if err := result.Err(); err != nil {
		message = fmt.Sprintf("check '%s' raised an error: %v", check.ErrorMessage(), err)
	}
	return &errors.SchemaError{
		Context: context,
		Column:  name,
		Check:   check.Name(),
		Message: message,
		Cases:   records,
		Cause:   result.Err(),
	}
}

func isIntegerType(dtype arrow.DataType) bool {
	switch dtype.ID() {
	case arrow.INT64, arrow.INT32:
		return true
	default:
		return false
	}
}

func isFloatType(dtype arrow.DataType) bool {
	switch dtype.ID() {
	case arrow.FLOAT64, arrow.FLOAT32:
		return true
	default:
		return false
	}
}

// nonIntegralRows returns positions of non-null float values carrying a
// fractional part
func nonIntegralRows(s dataframe.ISeries) []int {
	var rows []int
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		switch v := s.ValueAt(i).(type) {
		case float64:
			if v != float64(int64(v)) {
				rows = append(rows, i)
			}
		case float32:
			if float64(v) != float64(int64(v)) {
				rows = append(rows, i)
			}
		}
	}
	return rows
}

// duplicateRows returns positions whose value already occurred earlier in the
// series. Values are compared through their string rendering, bucketed by
// hash to avoid quadratic scans on large columns.
func duplicateRows(s dataframe.ISeries) []int {
	seen := make(map[uint64][]int)
	var dups []int
	for i := 0; i < s.Len(); i++ {
		key := s.GetAsString(i)
		h := xxhash.Sum64String(key)
		duplicate := false
		for _, j := range seen[h] {
			if s.GetAsString(j) == key {
				duplicate = true
				break
			}
		}
		if duplicate {
			dups = append(dups, i)
		} else {
			seen[h] = append(seen[h], i)
		}
	}
	return dups
}

// Validate checks a bare series against this schema. It returns the
// validated (possibly coerced) series, or the first failure in eager mode. In
// lazy mode every failure is aggregated into one SchemaErrors carrying the
// original input.
func (s *SeriesSchema) Validate(data dataframe.ISeries, opts ...ValidateOption) (dataframe.ISeries, error) {
	options := collectValidateOptions(opts)

	validated := data
	if s.spec.coerce {
		coerced, err := coerceSeries(data, &s.spec, options.mem)
		if err != nil {
			return nil, err
		}
		validated = coerced
	}

	target := seriesTarget{
		context:   errors.ContextSeriesSchema,
		name:      displayName(s.spec.name, data.Name()),
		series:    validated,
		spec:      &s.spec,
		matchName: true,
	}

	if restricted, rows := restrictSeries(validated, options); restricted != nil {
		target.series = restricted
		target.rows = rows
	}

	records, err := validateSeries(target, options.lazy)
	if err != nil {
		if se, ok := err.(*errors.SchemaError); ok {
			se.Data = data
		}
		return nil, err
	}
	if len(records) > 0 {
		return nil, &errors.SchemaErrors{Records: records, Data: data}
	}
	return validated, nil
}

// restrictSeries applies the head/tail/sample restriction to a bare series.
// It returns nil when no restriction is configured.
func restrictSeries(s dataframe.ISeries, options *validateOptions) (dataframe.ISeries, []int) {
	rows := selectRows(s.Len(), options)
	if rows == nil {
		return nil, nil
	}
	return dataframe.TakeSeries(s, rows, options.mem), rows
}

func displayName(declared, actual string) string {
	if declared != "" {
		return declared
	}
	if actual != "" {
		return actual
	}
	return "<series>"
}
