package schema

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin/internal/checks"
	"github.com/paveg/tamarin/internal/config"
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/errors"
	"github.com/paveg/tamarin/internal/parallel"
)

// ValidateOption configures a single validation run
type ValidateOption func(*validateOptions)

type validateOptions struct {
	head   int
	tail   int
	sample int
	seed   int64
	lazy   bool
	mem    memory.Allocator
}

// Head restricts validation to the first n rows
func Head(n int) ValidateOption {
	return func(o *validateOptions) { o.head = n }
}

// Tail restricts validation to the last n rows
func Tail(n int) ValidateOption {
	return func(o *validateOptions) { o.tail = n }
}

// Sample restricts validation to a random subset of n rows
func Sample(n int) ValidateOption {
	return func(o *validateOptions) { o.sample = n }
}

// RandomState seeds the Sample row selection for reproducible runs
func RandomState(seed int64) ValidateOption {
	return func(o *validateOptions) { o.seed = seed }
}

// Lazy runs every check regardless of earlier failures and reports all
// failures at once
func Lazy() ValidateOption {
	return func(o *validateOptions) { o.lazy = true }
}

// WithAllocator sets the Arrow allocator used for coerced and sliced data
func WithAllocator(mem memory.Allocator) ValidateOption {
	return func(o *validateOptions) { o.mem = mem }
}

func collectValidateOptions(opts []ValidateOption) *validateOptions {
	o := &validateOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.mem == nil {
		o.mem = memory.NewGoAllocator()
	}
	return o
}

// selectRows computes the row positions narrowed to by head/tail/sample.
// A nil result means no restriction is configured and all rows are checked.
// Restrictions combine as a sorted, deduplicated union.
func selectRows(n int, options *validateOptions) []int {
	if options.head <= 0 && options.tail <= 0 && options.sample <= 0 {
		return nil
	}

	picked := make(map[int]struct{})
	if options.head > 0 {
		for i := 0; i < options.head && i < n; i++ {
			picked[i] = struct{}{}
		}
	}
	if options.tail > 0 {
		start := n - options.tail
		if start < 0 {
			start = 0
		}
		for i := start; i < n; i++ {
			picked[i] = struct{}{}
		}
	}
	if options.sample > 0 {
		rng := rand.New(rand.NewSource(options.seed))
		remaining := options.sample
		for _, i := range rng.Perm(n) {
			if remaining == 0 {
				break
			}
			if _, ok := picked[i]; !ok {
				picked[i] = struct{}{}
				remaining--
			}
		}
	}

	rows := make([]int, 0, len(picked))
	for i := range picked {
		rows = append(rows, i)
	}
	sort.Ints(rows)
	return rows
}

// columnResult carries one column's validation outcome back from the worker
// pool in declaration order
type columnResult struct {
	records []errors.FailureRecord
	err     error
}

// Validate checks a frame against this schema. On success it returns the
// full original frame with any requested coercions applied; head, tail and
// sample only narrow what is checked, never what is returned. In eager mode
// the first failure raises immediately; in lazy mode every failure across
// column resolution, coercion targets, index levels, columns, table checks
// and strict membership is aggregated into one SchemaErrors carrying the
// untouched input.
func (s *DataFrameSchema) Validate(df *dataframe.DataFrame, opts ...ValidateOption) (*dataframe.DataFrame, error) {
	options := collectValidateOptions(opts)
	collector := newCollector()

	// 1. column resolution
	resolved, resolutionFailures := resolveColumns(s, df)
	for _, failure := range resolutionFailures {
		failure.Data = df
		if !options.lazy {
			return nil, failure
		}
		collector.add(failure)
	}

	// 2. coercion, applied to the full frame so the returned columns carry
	// the declared types for every row
	validated, err := s.coerceResolved(df, resolved, options.mem)
	if err != nil {
		return nil, err // raw conversion errors propagate in both modes
	}

	// 3. restriction narrows what is checked, not what is returned
	rows := selectRows(validated.Len(), options)
	checked := validated
	if rows != nil {
		checked = validated.Take(rows, options.mem)
	}

	// 4. index validation
	indexRecords, err := s.validateIndex(checked, rows, options)
	if err != nil {
		if se, ok := err.(*errors.SchemaError); ok {
			se.Data = df
		}
		return nil, err
	}
	collector.addRecords(indexRecords)

	// 5. per-column validation, parallel above the configured row threshold
	columnRecords, err := s.validateColumns(checked, resolved, rows, options)
	if err != nil {
		if se, ok := err.(*errors.SchemaError); ok {
			se.Data = df
		}
		return nil, err
	}
	collector.addRecords(columnRecords)

	// 6. table-wide checks
	for _, check := range s.checks {
		failure := runTableCheck(check, checked, rows, options.mem)
		if failure == nil {
			continue
		}
		failure.Data = df
		if !options.lazy {
			return nil, failure
		}
		collector.add(failure)
	}

	// 7. strict column membership
	if s.strict {
		for _, failure := range checkStrict(df, resolved) {
			failure.Data = df
			if !options.lazy {
				return nil, failure
			}
			collector.add(failure)
		}
	}

	if err := collector.result(df); err != nil {
		return nil, err
	}
	return validated, nil
}

// coerceResolved applies requested coercions to columns and index levels,
// returning a frame sharing everything that did not change
func (s *DataFrameSchema) coerceResolved(
	df *dataframe.DataFrame, resolved []resolvedColumn, mem memory.Allocator,
) (*dataframe.DataFrame, error) {
	validated := df
	for _, rc := range resolved {
		spec := rc.col.Spec()
		if !spec.coerce && !s.coerce {
			continue
		}
		col, ok := validated.Column(rc.name)
		if !ok {
			continue
		}
		coerced, err := coerceSeries(col, spec, mem)
		if err != nil {
			return nil, err
		}
		if coerced != col {
			validated = validated.WithColumn(rc.name, coerced)
		}
	}

	levels := validated.IndexLevels()
	for i, spec := range s.indexLevelSpecs() {
		if spec == nil || !spec.coerce || i >= len(levels) {
			continue
		}
		coerced, err := coerceSeries(levels[i], spec, mem)
		if err != nil {
			return nil, err
		}
		if coerced != levels[i] {
			validated = validated.WithIndexLevel(i, coerced)
		}
	}
	return validated, nil
}

// indexLevelSpecs flattens the index spec into per-level series specs
func (s *DataFrameSchema) indexLevelSpecs() []*SeriesSpec {
	switch idx := s.index.(type) {
	case *Index:
		return []*SeriesSpec{&idx.spec}
	case *MultiIndex:
		specs := make([]*SeriesSpec, len(idx.indexes))
		for i, level := range idx.indexes {
			specs[i] = &level.spec
		}
		return specs
	default:
		return nil
	}
}

// validateIndex checks the frame's row labels against the declared index
// spec, level by level for a MultiIndex
func (s *DataFrameSchema) validateIndex(
	checked *dataframe.DataFrame, rows []int, options *validateOptions,
) ([]errors.FailureRecord, error) {
	if s.index == nil {
		return nil, nil
	}
	levels := effectiveIndexLevels(checked, rows, options.mem)

	switch idx := s.index.(type) {
	case *Index:
		if len(levels) > 1 {
			return indexShapeFailure(errors.ContextIndex, idx.Name(), fmt.Sprintf(
				"expected a single index, found MultiIndex with %d levels", len(levels)), options.lazy)
		}
		target := seriesTarget{
			context:   errors.ContextIndex,
			name:      displayName(idx.Name(), levels[0].Name()),
			series:    levels[0],
			spec:      &idx.spec,
			rows:      rows,
			matchName: true,
		}
		return validateSeries(target, options.lazy)
	case *MultiIndex:
		if len(levels) != len(idx.indexes) {
			return indexShapeFailure(errors.ContextMultiIndex, "", fmt.Sprintf(
				"expected MultiIndex with %d levels, found %d", len(idx.indexes), len(levels)), options.lazy)
		}
		var records []errors.FailureRecord
		for i, level := range idx.indexes {
			target := seriesTarget{
				context:   errors.ContextMultiIndex,
				name:      displayName(level.Name(), levels[i].Name()),
				series:    levels[i],
				spec:      &level.spec,
				rows:      rows,
				matchName: true,
			}
			levelRecords, err := validateSeries(target, options.lazy)
			if err != nil {
				return nil, err
			}
			records = append(records, levelRecords...)
		}
		return records, nil
	default:
		return nil, nil
	}
}

func indexShapeFailure(context, name, message string, lazy bool) ([]errors.FailureRecord, error) {
	failure := errors.NewSchemaError(context, name, "index_shape", "%s", message)
	if !lazy {
		return nil, failure
	}
	return failure.Records(), nil
}

// effectiveIndexLevels returns the frame's index levels, synthesizing the
// implicit positional index when none are attached. Under a row restriction
// the synthesized labels are the original row positions.
func effectiveIndexLevels(df *dataframe.DataFrame, rows []int, mem memory.Allocator) []dataframe.ISeries {
	if levels := df.IndexLevels(); len(levels) > 0 {
		return levels
	}
	if rows == nil {
		return []dataframe.ISeries{dataframe.RangeIndex(df.Len(), mem)}
	}
	if len(rows) == 0 {
		return []dataframe.ISeries{dataframe.RangeIndex(0, mem)}
	}
	full := dataframe.RangeIndex(rows[len(rows)-1]+1, mem)
	return []dataframe.ISeries{dataframe.TakeSeries(full, rows, mem)}
}

// validateColumns runs the series validator over every resolved column.
// Columns are mutually independent, so above the configured row threshold
// they are validated in parallel; results are restored to declaration order
// before reporting so behavior stays reproducible.
func (s *DataFrameSchema) validateColumns(
	checked *dataframe.DataFrame, resolved []resolvedColumn, rows []int, options *validateOptions,
) ([]errors.FailureRecord, error) {
	targets := make([]seriesTarget, 0, len(resolved))
	for _, rc := range resolved {
		col, ok := checked.Column(rc.name)
		if !ok {
			continue
		}
		targets = append(targets, seriesTarget{
			context: errors.ContextColumn,
			name:    rc.name,
			series:  col,
			spec:    rc.col.Spec(),
			rows:    rows,
		})
	}

	cfg := config.GetConfig()
	var results []columnResult
	if len(targets) > 1 && checked.Len() >= cfg.ParallelThreshold {
		pool := parallel.NewWorkerPool(cfg.WorkerPoolSize)
		defer pool.Close()
		results = parallel.ProcessIndexed(pool, targets, func(_ int, t seriesTarget) columnResult {
			records, err := validateSeries(t, options.lazy)
			return columnResult{records: records, err: err}
		})
	} else {
		results = make([]columnResult, len(targets))
		for i, t := range targets {
			records, err := validateSeries(t, options.lazy)
			results[i] = columnResult{records: records, err: err}
		}
	}

	var records []errors.FailureRecord
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		records = append(records, res.records...)
	}
	return records, nil
}

// runTableCheck evaluates one table-wide check against the checked frame.
// Failures are attributed to the schema itself, not to any single column.
func runTableCheck(
	check *checks.Check, checked *dataframe.DataFrame, rows []int, mem memory.Allocator,
) *errors.SchemaError {
	evaluated := checked
	rowMap := rows
	if check.IgnoreNA() {
		evaluated, rowMap = dropNullRows(checked, rows, mem)
	}

	result := check.EvaluateTable(evaluated)
	cases := checks.FailureCases(result, nil, rowMap, check.ErrorMessage())
	if len(cases) == 0 {
		return nil
	}
	failure := checkFailure(errors.ContextDataFrameSchema, "", check, result, cases)
	failure.Column = ""
	for i := range failure.Cases {
		failure.Cases[i].Column = ""
	}
	return failure
}

// dropNullRows removes rows holding any missing value before a table check
// runs, keeping the mapping back to original row positions
func dropNullRows(
	df *dataframe.DataFrame, rows []int, mem memory.Allocator,
) (*dataframe.DataFrame, []int) {
	var keep []int
	var mapped []int
	for i := 0; i < df.Len(); i++ {
		hasNull := false
		for _, name := range df.Columns() {
			if col, ok := df.Column(name); ok && col.IsNull(i) {
				hasNull = true
				break
			}
		}
		if hasNull {
			continue
		}
		keep = append(keep, i)
		if rows != nil && i < len(rows) {
			mapped = append(mapped, rows[i])
		} else {
			mapped = append(mapped, i)
		}
	}
	if len(keep) == df.Len() {
		return df, rows
	}
	return df.Take(keep, mem), mapped
}
