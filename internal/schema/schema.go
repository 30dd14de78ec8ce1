// Package schema implements declarative validation contracts for Arrow-backed
// series and DataFrames.
//
// A schema declares, per column or index level, the expected data type,
// nullability, uniqueness, coercion behavior and an ordered list of checks.
// Validating a frame either returns it (optionally coerced) or reports every
// violation found. Schema values are immutable after construction: the
// add/remove/update builders return structural copies and never mutate in
// place, so concurrent validations against one schema are safe.
package schema

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/tamarin/internal/checks"
	"github.com/paveg/tamarin/internal/errors"
)

// SeriesSpec holds the expectations shared by every schema level: bare
// series, column-within-table, and index level.
type SeriesSpec struct {
	dtype           arrow.DataType // nil means any type is accepted
	checks          []*checks.Check
	nullable        bool
	allowDuplicates bool
	coerce          bool
	name            string
}

// Type returns the declared data type, or nil when any type is accepted
func (s *SeriesSpec) Type() arrow.DataType { return s.dtype }

// Checks returns the declared checks in declaration order
func (s *SeriesSpec) Checks() []*checks.Check { return s.checks }

// Nullable reports whether missing values are accepted
func (s *SeriesSpec) Nullable() bool { return s.nullable }

// AllowDuplicates reports whether duplicate values are accepted
func (s *SeriesSpec) AllowDuplicates() bool { return s.allowDuplicates }

// Coerce reports whether values are converted to the declared type before
// validation
func (s *SeriesSpec) Coerce() bool { return s.coerce }

// Name returns the declared series name, if any
func (s *SeriesSpec) Name() string { return s.name }

func (s *SeriesSpec) equal(other *SeriesSpec) bool {
	if s.name != other.name || s.nullable != other.nullable ||
		s.allowDuplicates != other.allowDuplicates || s.coerce != other.coerce {
		return false
	}
	if (s.dtype == nil) != (other.dtype == nil) {
		return false
	}
	if s.dtype != nil && !arrow.TypeEqual(s.dtype, other.dtype) {
		return false
	}
	if len(s.checks) != len(other.checks) {
		return false
	}
	for i, c := range s.checks {
		if !c.Equal(other.checks[i]) {
			return false
		}
	}
	return true
}

func (s *SeriesSpec) clone() SeriesSpec {
	out := *s
	out.checks = append([]*checks.Check(nil), s.checks...)
	return out
}

// checkInit enforces construction-time invariants on one spec
func (s *SeriesSpec) checkInit(schemaCoerce bool) error {
	if (s.coerce || schemaCoerce) && s.dtype == nil {
		return errors.NewSchemaInitError(
			"cannot coerce '%s': coercion requires a declared type", s.name)
	}
	return nil
}

// Option configures a spec at construction time. Boolean options take the
// desired value so UpdateColumn can flip flags in either direction.
type Option func(*specOptions)

type specOptions struct {
	dtype           arrow.DataType
	dtypeSet        bool
	checks          []*checks.Check
	checksSet       bool
	nullable        *bool
	allowDuplicates *bool
	coerce          *bool
	required        *bool
	regex           *bool
	name            *string
}

// WithType replaces the declared data type
func WithType(dtype arrow.DataType) Option {
	return func(o *specOptions) { o.dtype = dtype; o.dtypeSet = true }
}

// WithChecks replaces the declared check list
func WithChecks(cs ...*checks.Check) Option {
	return func(o *specOptions) { o.checks = cs; o.checksSet = true }
}

// Nullable declares whether missing values are accepted (default false)
func Nullable(nullable bool) Option {
	return func(o *specOptions) { o.nullable = &nullable }
}

// AllowDuplicates declares whether duplicate values are accepted (default true)
func AllowDuplicates(allow bool) Option {
	return func(o *specOptions) { o.allowDuplicates = &allow }
}

// Coerce declares whether values are converted to the declared type before
// validation (default false)
func Coerce(coerce bool) Option {
	return func(o *specOptions) { o.coerce = &coerce }
}

// Required declares whether a column must be present in the frame
// (default true; columns only)
func Required(required bool) Option {
	return func(o *specOptions) { o.required = &required }
}

// Regex declares that the column name is a pattern matched against the
// frame's columns (default false; columns only)
func Regex(regex bool) Option {
	return func(o *specOptions) { o.regex = &regex }
}

// Named sets the declared series name. For columns the name is the
// constructor argument; Named applies to bare series and index specs.
func Named(name string) Option {
	return func(o *specOptions) { o.name = &name }
}

func (o *specOptions) apply(spec *SeriesSpec) {
	if o.dtypeSet {
		spec.dtype = o.dtype
	}
	if o.checksSet {
		spec.checks = append([]*checks.Check(nil), o.checks...)
	}
	if o.nullable != nil {
		spec.nullable = *o.nullable
	}
	if o.allowDuplicates != nil {
		spec.allowDuplicates = *o.allowDuplicates
	}
	if o.coerce != nil {
		spec.coerce = *o.coerce
	}
	if o.name != nil {
		spec.name = *o.name
	}
}

func collectOptions(opts []Option) *specOptions {
	o := &specOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Column declares expectations for one table column, or a group of columns
// when the name is a regex pattern.
type Column struct {
	spec     SeriesSpec
	required bool
	regex    bool
}

// NewColumn creates a column spec. dtype may be nil to accept any type.
func NewColumn(name string, dtype arrow.DataType, opts ...Option) *Column {
	o := collectOptions(opts)
	col := &Column{
		spec: SeriesSpec{
			dtype:           dtype,
			name:            name,
			allowDuplicates: true,
		},
		required: true,
	}
	o.apply(&col.spec)
	if o.required != nil {
		col.required = *o.required
	}
	if o.regex != nil {
		col.regex = *o.regex
	}
	return col
}

// Spec returns the series-level expectations of this column
func (c *Column) Spec() *SeriesSpec { return &c.spec }

// Name returns the declared column name or pattern
func (c *Column) Name() string { return c.spec.name }

// Required reports whether the column must be present in the frame
func (c *Column) Required() bool { return c.required }

// IsRegex reports whether the declared name is a pattern
func (c *Column) IsRegex() bool { return c.regex }

// Equal reports structural equality of two column specs
func (c *Column) Equal(other *Column) bool {
	if other == nil {
		return false
	}
	return c.required == other.required && c.regex == other.regex &&
		c.spec.equal(&other.spec)
}

func (c *Column) clone() *Column {
	out := *c
	out.spec = c.spec.clone()
	return &out
}

// withUpdates returns a copy of the column with the given options applied
func (c *Column) withUpdates(o *specOptions) *Column {
	out := c.clone()
	o.apply(&out.spec)
	if o.required != nil {
		out.required = *o.required
	}
	if o.regex != nil {
		out.regex = *o.regex
	}
	return out
}

// Index declares expectations for a single-level row index
type Index struct {
	spec SeriesSpec
}

// NewIndex creates an index spec. dtype may be nil to accept any type.
func NewIndex(dtype arrow.DataType, opts ...Option) *Index {
	o := collectOptions(opts)
	idx := &Index{
		spec: SeriesSpec{
			dtype:           dtype,
			allowDuplicates: true,
		},
	}
	o.apply(&idx.spec)
	return idx
}

// Spec returns the series-level expectations of this index level
func (ix *Index) Spec() *SeriesSpec { return &ix.spec }

// Name returns the declared index name, if any
func (ix *Index) Name() string { return ix.spec.name }

// Equal reports structural equality of two index specs
func (ix *Index) Equal(other *Index) bool {
	return other != nil && ix.spec.equal(&other.spec)
}

// MultiIndex declares expectations for a composite row index, one Index per
// level
type MultiIndex struct {
	indexes []*Index
}

// NewMultiIndex creates a composite index spec from per-level index specs
func NewMultiIndex(indexes ...*Index) *MultiIndex {
	return &MultiIndex{indexes: append([]*Index(nil), indexes...)}
}

// Indexes returns the per-level index specs in order
func (mi *MultiIndex) Indexes() []*Index { return mi.indexes }

// Equal reports structural equality of two composite index specs
func (mi *MultiIndex) Equal(other *MultiIndex) bool {
	if other == nil || len(mi.indexes) != len(other.indexes) {
		return false
	}
	for i, ix := range mi.indexes {
		if !ix.Equal(other.indexes[i]) {
			return false
		}
	}
	return true
}

// IndexSpec is either an *Index or a *MultiIndex
type IndexSpec interface {
	indexSpec()
}

func (ix *Index) indexSpec()      {}
func (mi *MultiIndex) indexSpec() {}

func indexSpecsEqual(a, b IndexSpec) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case *Index:
		bv, ok := b.(*Index)
		return ok && av.Equal(bv)
	case *MultiIndex:
		bv, ok := b.(*MultiIndex)
		return ok && av.Equal(bv)
	default:
		return false
	}
}

// SeriesSchema declares expectations for a bare series outside any table
type SeriesSchema struct {
	spec SeriesSpec
}

// NewSeriesSchema creates a schema for a bare series. dtype may be nil to
// accept any type. Requesting coercion without a declared type is a
// construction-time error.
func NewSeriesSchema(dtype arrow.DataType, opts ...Option) (*SeriesSchema, error) {
	o := collectOptions(opts)
	s := &SeriesSchema{
		spec: SeriesSpec{
			dtype:           dtype,
			allowDuplicates: true,
		},
	}
	o.apply(&s.spec)
	if err := s.spec.checkInit(false); err != nil {
		return nil, err
	}
	return s, nil
}

// Spec returns the series-level expectations of this schema
func (s *SeriesSchema) Spec() *SeriesSpec { return &s.spec }

// Equal reports structural equality of two series schemas
func (s *SeriesSchema) Equal(other *SeriesSchema) bool {
	return other != nil && s.spec.equal(&other.spec)
}

// DataFrameSchema declares expectations for a whole table: an ordered set of
// column specs, an optional index spec, table-wide checks, and the strict and
// coerce policies.
type DataFrameSchema struct {
	columns map[string]*Column
	order   []string
	index   IndexSpec
	checks  []*checks.Check
	strict  bool
	coerce  bool
}

// SchemaOption configures table-level schema properties
type SchemaOption func(*DataFrameSchema)

// WithIndex attaches an index spec (single Index or MultiIndex)
func WithIndex(index IndexSpec) SchemaOption {
	return func(s *DataFrameSchema) { s.index = index }
}

// WithTableChecks attaches table-wide checks receiving the whole frame
func WithTableChecks(cs ...*checks.Check) SchemaOption {
	return func(s *DataFrameSchema) { s.checks = append([]*checks.Check(nil), cs...) }
}

// Strict rejects any frame column not declared in the schema
func Strict(strict bool) SchemaOption {
	return func(s *DataFrameSchema) { s.strict = strict }
}

// CoerceAll requests coercion of every column to its declared type
func CoerceAll(coerce bool) SchemaOption {
	return func(s *DataFrameSchema) { s.coerce = coerce }
}

// New creates a table schema from column specs in declaration order.
// Duplicate column names and coercion without a declared type are
// construction-time errors.
func New(columns []*Column, opts ...SchemaOption) (*DataFrameSchema, error) {
	s := &DataFrameSchema{
		columns: make(map[string]*Column, len(columns)),
		order:   make([]string, 0, len(columns)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, col := range columns {
		if _, exists := s.columns[col.Name()]; exists {
			return nil, errors.NewSchemaInitError("duplicate column '%s'", col.Name())
		}
		s.columns[col.Name()] = col
		s.order = append(s.order, col.Name())
	}
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DataFrameSchema) checkInit() error {
	for _, name := range s.order {
		if err := s.columns[name].spec.checkInit(s.coerce); err != nil {
			return err
		}
	}
	for _, c := range s.checks {
		if c.Kind() != checks.KindTable {
			return errors.NewSchemaInitError(
				"table-wide check '%s' must have table granularity, got %s", c.Name(), c.Kind())
		}
	}
	return nil
}

// Columns returns the column specs in declaration order
func (s *DataFrameSchema) Columns() []*Column {
	out := make([]*Column, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.columns[name])
	}
	return out
}

// Column returns the spec declared under the given name
func (s *DataFrameSchema) Column(name string) (*Column, bool) {
	col, ok := s.columns[name]
	return col, ok
}

// Index returns the declared index spec, or nil
func (s *DataFrameSchema) Index() IndexSpec { return s.index }

// Checks returns the table-wide checks in declaration order
func (s *DataFrameSchema) Checks() []*checks.Check { return s.checks }

// Strict reports whether undeclared frame columns are rejected
func (s *DataFrameSchema) Strict() bool { return s.strict }

// Coerce reports whether every column is coerced to its declared type
func (s *DataFrameSchema) Coerce() bool { return s.coerce }

// Equal reports structural equality of two table schemas. Columns are
// compared as a set of (name, spec) pairs, independent of declaration order.
func (s *DataFrameSchema) Equal(other *DataFrameSchema) bool {
	if other == nil || s.strict != other.strict || s.coerce != other.coerce {
		return false
	}
	if !indexSpecsEqual(s.index, other.index) {
		return false
	}
	if len(s.checks) != len(other.checks) {
		return false
	}
	for i, c := range s.checks {
		if !c.Equal(other.checks[i]) {
			return false
		}
	}
	if len(s.columns) != len(other.columns) {
		return false
	}
	for name, col := range s.columns {
		otherCol, ok := other.columns[name]
		if !ok || !col.Equal(otherCol) {
			return false
		}
	}
	return true
}

func (s *DataFrameSchema) copy() *DataFrameSchema {
	out := &DataFrameSchema{
		columns: make(map[string]*Column, len(s.columns)),
		order:   append([]string(nil), s.order...),
		index:   s.index,
		checks:  append([]*checks.Check(nil), s.checks...),
		strict:  s.strict,
		coerce:  s.coerce,
	}
	for name, col := range s.columns {
		out.columns[name] = col.clone()
	}
	return out
}

// AddColumns returns a new schema with the given columns appended. The
// receiver is not modified.
func (s *DataFrameSchema) AddColumns(columns ...*Column) (*DataFrameSchema, error) {
	out := s.copy()
	for _, col := range columns {
		if _, exists := out.columns[col.Name()]; exists {
			return nil, errors.NewSchemaInitError("duplicate column '%s'", col.Name())
		}
		if err := col.spec.checkInit(out.coerce); err != nil {
			return nil, err
		}
		out.columns[col.Name()] = col.clone()
		out.order = append(out.order, col.Name())
	}
	return out, nil
}

// RemoveColumns returns a new schema without the named columns. The receiver
// is not modified. Unknown names are errors.
func (s *DataFrameSchema) RemoveColumns(names ...string) (*DataFrameSchema, error) {
	out := s.copy()
	for _, name := range names {
		if _, exists := out.columns[name]; !exists {
			return nil, errors.NewSchemaInitError("cannot remove unknown column '%s'", name)
		}
		delete(out.columns, name)
		for i, n := range out.order {
			if n == name {
				out.order = append(out.order[:i], out.order[i+1:]...)
				break
			}
		}
	}
	return out, nil
}

// UpdateColumn returns a new schema with the named column's properties
// updated. The receiver is not modified. Renaming through an update is an
// error, as is updating an unknown column.
func (s *DataFrameSchema) UpdateColumn(name string, opts ...Option) (*DataFrameSchema, error) {
	col, exists := s.columns[name]
	if !exists {
		return nil, errors.NewSchemaInitError("cannot update unknown column '%s'", name)
	}
	o := collectOptions(opts)
	if o.name != nil && *o.name != name {
		return nil, errors.NewSchemaInitError(
			"cannot rename column '%s' through UpdateColumn", name)
	}
	updated := col.withUpdates(o)
	if err := updated.spec.checkInit(s.coerce); err != nil {
		return nil, err
	}
	out := s.copy()
	out.columns[name] = updated
	return out, nil
}

// DTypes returns the declared type per non-regex column. Regex column groups
// have no concrete columns until resolved against a frame; use
// ResolvedDTypes for those.
func (s *DataFrameSchema) DTypes() map[string]arrow.DataType {
	out := make(map[string]arrow.DataType, len(s.order))
	for _, name := range s.order {
		if col := s.columns[name]; !col.regex {
			out[name] = col.spec.dtype
		}
	}
	return out
}
