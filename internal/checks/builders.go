package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/paveg/tamarin/internal/common"
)

// Built-in check constructors. Each carries a stable identifier derived from
// its parameters (e.g. "greater_than(5)") so failure reports are
// self-describing. Comparison failures against incompatible value types
// surface as evaluation errors, not panics.

// GreaterThan checks that every value is strictly greater than lower
func GreaterThan(lower any, opts ...Option) *Check {
	return compareCheck(fmt.Sprintf("greater_than(%s)", formatValue(lower)), lower,
		func(cmp int) bool { return cmp > 0 }, opts)
}

// GreaterThanOrEqual checks that every value is at least lower
func GreaterThanOrEqual(lower any, opts ...Option) *Check {
	return compareCheck(fmt.Sprintf("greater_than_or_equal_to(%s)", formatValue(lower)), lower,
		func(cmp int) bool { return cmp >= 0 }, opts)
}

// LessThan checks that every value is strictly less than upper
func LessThan(upper any, opts ...Option) *Check {
	return compareCheck(fmt.Sprintf("less_than(%s)", formatValue(upper)), upper,
		func(cmp int) bool { return cmp < 0 }, opts)
}

// LessThanOrEqual checks that every value is at most upper
func LessThanOrEqual(upper any, opts ...Option) *Check {
	return compareCheck(fmt.Sprintf("less_than_or_equal_to(%s)", formatValue(upper)), upper,
		func(cmp int) bool { return cmp <= 0 }, opts)
}

// EqualTo checks that every value equals the given value
func EqualTo(value any, opts ...Option) *Check {
	return compareCheck(fmt.Sprintf("equal_to(%s)", formatValue(value)), value,
		func(cmp int) bool { return cmp == 0 }, opts)
}

// NotEqualTo checks that no value equals the given value
func NotEqualTo(value any, opts ...Option) *Check {
	return compareCheck(fmt.Sprintf("not_equal_to(%s)", formatValue(value)), value,
		func(cmp int) bool { return cmp != 0 }, opts)
}

func compareCheck(name string, bound any, accept func(int) bool, opts []Option) *Check {
	return elementwiseNamed(name, func(v any) (bool, error) {
		cmp, err := common.Compare(v, bound)
		if err != nil {
			return false, err
		}
		return accept(cmp), nil
	}, opts)
}

// InRange checks that every value lies in [lower, upper]
func InRange(lower, upper any, opts ...Option) *Check {
	name := fmt.Sprintf("in_range(%s, %s)", formatValue(lower), formatValue(upper))
	return elementwiseNamed(name, func(v any) (bool, error) {
		low, err := common.Compare(v, lower)
		if err != nil {
			return false, err
		}
		high, err := common.Compare(v, upper)
		if err != nil {
			return false, err
		}
		return low >= 0 && high <= 0, nil
	}, opts)
}

// IsIn checks that every value is a member of the allowed set
func IsIn(allowed []any, opts ...Option) *Check {
	members := memberSet(allowed)
	name := fmt.Sprintf("isin(%s)", formatValues(allowed))
	return elementwiseNamed(name, func(v any) (bool, error) {
		_, ok := members[formatValue(v)]
		return ok, nil
	}, opts)
}

// NotIn checks that no value is a member of the forbidden set
func NotIn(forbidden []any, opts ...Option) *Check {
	members := memberSet(forbidden)
	name := fmt.Sprintf("notin(%s)", formatValues(forbidden))
	return elementwiseNamed(name, func(v any) (bool, error) {
		_, ok := members[formatValue(v)]
		return !ok, nil
	}, opts)
}

// StrStartsWith checks that every string value starts with the given prefix
func StrStartsWith(prefix string, opts ...Option) *Check {
	return stringCheck(fmt.Sprintf("str_startswith(%q)", prefix),
		func(s string) bool { return strings.HasPrefix(s, prefix) }, opts)
}

// StrEndsWith checks that every string value ends with the given suffix
func StrEndsWith(suffix string, opts ...Option) *Check {
	return stringCheck(fmt.Sprintf("str_endswith(%q)", suffix),
		func(s string) bool { return strings.HasSuffix(s, suffix) }, opts)
}

// StrContains checks that every string value contains the given substring
func StrContains(substring string, opts ...Option) *Check {
	return stringCheck(fmt.Sprintf("str_contains(%q)", substring),
		func(s string) bool { return strings.Contains(s, substring) }, opts)
}

// StrMatches checks that every string value matches the given pattern.
// An invalid pattern surfaces as an evaluation error.
func StrMatches(pattern string, opts ...Option) *Check {
	re, compileErr := regexp.Compile(pattern)
	name := fmt.Sprintf("str_matches(%q)", pattern)
	return elementwiseNamed(name, func(v any) (bool, error) {
		if compileErr != nil {
			return false, compileErr
		}
		s, ok := v.(string)
		if !ok {
			return false, fmt.Errorf("%s expects string values, got %T", name, v)
		}
		return re.MatchString(s), nil
	}, opts)
}

func stringCheck(name string, accept func(string) bool, opts []Option) *Check {
	return elementwiseNamed(name, func(v any) (bool, error) {
		s, ok := v.(string)
		if !ok {
			return false, fmt.Errorf("%s expects string values, got %T", name, v)
		}
		return accept(s), nil
	}, opts)
}

func elementwiseNamed(name string, fn func(any) (bool, error), opts []Option) *Check {
	c := newCheck(KindElementwise, nil, func(c *Check) { c.elemFn = fn })
	c.name = name
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func memberSet(values []any) map[string]struct{} {
	members := make(map[string]struct{}, len(values))
	for _, v := range values {
		members[formatValue(v)] = struct{}{}
	}
	return members
}

func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	if s, err := common.ToString(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func formatValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
