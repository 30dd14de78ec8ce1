// Package errors provides standardized error types for schema validation.
// This package defines the validation error taxonomy used across all public
// APIs: construction-time errors, single validation failures, lazy-mode
// aggregates, and raw coercion errors, with context and wrapping support.
package errors

import (
	"fmt"
	"strings"
)

// Schema context values identify which entity reported a failure.
const (
	ContextDataFrameSchema = "DataFrameSchema"
	ContextSeriesSchema    = "SeriesSchema"
	ContextColumn          = "Column"
	ContextIndex           = "Index"
	ContextMultiIndex      = "MultiIndex"
)

// NoRow marks failure records that cannot be attributed to a row position.
const NoRow = -1

// FailureRecord is one attributable validation failure.
type FailureRecord struct {
	Context     string // schema entity that reported the failure
	Column      string // column or index name, if applicable
	Check       string // check identifier
	FailureCase string // representation of the offending value
	Row         int    // row position, or NoRow when not determinable
}

// SchemaInitError represents a schema construction-time contract violation.
// It is always fatal and never deferred to lazy validation.
type SchemaInitError struct {
	Message string
}

// Error implements the error interface
func (e *SchemaInitError) Error() string {
	return fmt.Sprintf("schema init error: %s", e.Message)
}

// NewSchemaInitError creates an error for invalid schema construction
func NewSchemaInitError(format string, args ...any) *SchemaInitError {
	return &SchemaInitError{Message: fmt.Sprintf(format, args...)}
}

// SchemaError represents a single validation failure.
type SchemaError struct {
	Context string // schema entity that reported the failure
	Column  string // column or index name, if applicable
	Check   string // check identifier, if applicable
	Message string // human-readable failure description
	Cause   error  // underlying error cause
	Cases   []FailureRecord
	Data    any // the object that failed validation
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s failed validation on '%s': %s", e.Context, e.Column, e.Message)
	}
	return fmt.Sprintf("%s failed validation: %s", e.Context, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *SchemaError) Is(target error) bool {
	if se, ok := target.(*SchemaError); ok {
		return e.Context == se.Context && e.Column == se.Column &&
			e.Check == se.Check && e.Message == se.Message
	}
	return false
}

// Records returns the failure records carried by this error. An error raised
// without explicit cases yields one synthetic record so that eager and lazy
// reporting stay uniform.
func (e *SchemaError) Records() []FailureRecord {
	if len(e.Cases) > 0 {
		return e.Cases
	}
	return []FailureRecord{{
		Context:     e.Context,
		Column:      e.Column,
		Check:       e.Check,
		FailureCase: e.Message,
		Row:         NoRow,
	}}
}

// NewSchemaError creates a validation failure with context attribution
func NewSchemaError(context, column, check, format string, args ...any) *SchemaError {
	return &SchemaError{
		Context: context,
		Column:  column,
		Check:   check,
		Message: fmt.Sprintf(format, args...),
	}
}

// SchemaErrors is the aggregate raised after a full lazy validation pass.
// It carries the untouched input and every failure found, in discovery order.
type SchemaErrors struct {
	Records []FailureRecord
	Data    any // the original input passed to validate
}

// Error implements the error interface
func (e *SchemaErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "A total of %d schema errors were found:", len(e.Records))
	for _, r := range e.Records {
		b.WriteString("\n\t")
		if r.Column != "" {
			fmt.Fprintf(&b, "[%s '%s'] ", r.Context, r.Column)
		} else {
			fmt.Fprintf(&b, "[%s] ", r.Context)
		}
		fmt.Fprintf(&b, "check=%s failure_case=%s", r.Check, r.FailureCase)
		if r.Row != NoRow {
			fmt.Fprintf(&b, " row=%d", r.Row)
		}
	}
	return b.String()
}

// CoercionError represents a raw type-conversion failure. It is deliberately
// distinct from SchemaError so callers can tell "data violates the contract"
// apart from "data could not even be interpreted", and it propagates in both
// eager and lazy modes.
type CoercionError struct {
	Column string // column or series name
	Target string // declared type the data could not convert to
	Cause  error  // underlying conversion error
}

// Error implements the error interface
func (e *CoercionError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("could not coerce column '%s' to type %s: %v", e.Column, e.Target, e.Cause)
	}
	return fmt.Sprintf("could not coerce series to type %s: %v", e.Target, e.Cause)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *CoercionError) Unwrap() error {
	return e.Cause
}

// NewCoercionError creates an error for unrecoverable type conversions
func NewCoercionError(column, target string, cause error) *CoercionError {
	return &CoercionError{Column: column, Target: target, Cause: cause}
}
