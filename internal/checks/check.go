// Package checks provides named validation predicates and their evaluation.
//
// A Check binds a predicate to an evaluation granularity: element-wise checks
// run the predicate independently against every value, series checks receive
// the whole value sequence at once, and table checks receive the whole
// DataFrame. Every evaluation produces a Result from a closed set of variants
// (boolean vector, scalar boolean, or evaluation error) so the failure-case
// extractor can pattern-match instead of introspecting predicate output.
package checks

import (
	"fmt"

	"github.com/paveg/tamarin/internal/dataframe"
)

// Kind is the evaluation granularity of a Check
type Kind int

const (
	// KindElementwise applies the predicate to every value independently
	KindElementwise Kind = iota
	// KindSeries applies the predicate once to the whole value sequence
	KindSeries
	// KindTable applies the predicate once to the whole DataFrame
	KindTable
)

// String returns the granularity name
func (k Kind) String() string {
	switch k {
	case KindElementwise:
		return "element_wise"
	case KindSeries:
		return "series"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Check is a named predicate bound to an evaluation granularity
type Check struct {
	name     string
	errMsg   string // custom failure description, used in place of name
	ignoreNA bool
	kind     Kind

	elemFn   func(any) (bool, error)
	seriesFn func([]any) Result
	tableFn  func(*dataframe.DataFrame) Result
}

// Option configures a Check at construction time
type Option func(*Check)

// WithName sets the check identifier used in failure reports
func WithName(name string) Option {
	return func(c *Check) { c.name = name }
}

// WithError sets a custom failure description
func WithError(msg string) Option {
	return func(c *Check) { c.errMsg = msg }
}

// WithIgnoreNA controls whether rows holding missing values are excluded
// before table-level evaluation. Defaults to true.
func WithIgnoreNA(ignore bool) Option {
	return func(c *Check) { c.ignoreNA = ignore }
}

// Elementwise creates a check applying fn to every value independently.
// A panic inside fn is converted into an evaluation-error result.
func Elementwise(fn func(any) bool, opts ...Option) *Check {
	return newCheck(KindElementwise, opts, func(c *Check) {
		c.elemFn = func(v any) (ok bool, err error) {
			defer recoverEvalError(&err)
			return fn(v), nil
		}
	})
}

// Series creates a check applying fn once to the whole value sequence.
// The sequence holds only non-missing values; fn must not mutate it.
func Series(fn func([]any) Result, opts ...Option) *Check {
	return newCheck(KindSeries, opts, func(c *Check) {
		c.seriesFn = func(values []any) (res Result) {
			defer func() {
				if r := recover(); r != nil {
					res = ErrorResult(fmt.Errorf("check evaluation panicked: %v", r))
				}
			}()
			return fn(values)
		}
	})
}

// Table creates a check applying fn once to the whole DataFrame
func Table(fn func(*dataframe.DataFrame) Result, opts ...Option) *Check {
	return newCheck(KindTable, opts, func(c *Check) {
		c.tableFn = func(df *dataframe.DataFrame) (res Result) {
			defer func() {
				if r := recover(); r != nil {
					res = ErrorResult(fmt.Errorf("check evaluation panicked: %v", r))
				}
			}()
			return fn(df)
		}
	})
}

func newCheck(kind Kind, opts []Option, bind func(*Check)) *Check {
	c := &Check{name: "check", ignoreNA: true, kind: kind}
	bind(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func recoverEvalError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("check evaluation panicked: %v", r)
	}
}

// Name returns the check identifier
func (c *Check) Name() string {
	return c.name
}

// ErrorMessage returns the custom failure description, or the name when none
// was configured
func (c *Check) ErrorMessage() string {
	if c.errMsg != "" {
		return c.errMsg
	}
	return c.name
}

// IgnoreNA reports whether missing-value rows are excluded before evaluation
func (c *Check) IgnoreNA() bool {
	return c.ignoreNA
}

// Kind returns the evaluation granularity
func (c *Check) Kind() Kind {
	return c.kind
}

// Equal reports structural equality of two checks: same identifier and
// configuration. Predicate closures are compared through their names, which
// the builders derive from their parameters.
func (c *Check) Equal(other *Check) bool {
	if other == nil {
		return false
	}
	return c.name == other.name && c.kind == other.kind &&
		c.ignoreNA == other.ignoreNA && c.errMsg == other.errMsg
}

// Evaluate runs a series-level check against the given values. The caller
// passes only non-missing values; predicates are not expected to handle
// absence. Table checks must go through EvaluateTable instead.
func (c *Check) Evaluate(values []any) Result {
	switch c.kind {
	case KindElementwise:
		vector := make([]bool, len(values))
		for i, v := range values {
			ok, err := c.elemFn(v)
			if err != nil {
				return ErrorResult(err)
			}
			vector[i] = ok
		}
		return VectorResult(vector)
	case KindSeries:
		return c.seriesFn(values)
	default:
		return ErrorResult(fmt.Errorf("%s check cannot run against a series", c.kind))
	}
}

// EvaluateTable runs a table-level check against the given frame
func (c *Check) EvaluateTable(df *dataframe.DataFrame) Result {
	if c.kind != KindTable {
		return ErrorResult(fmt.Errorf("%s check cannot run against a table", c.kind))
	}
	return c.tableFn(df)
}
