package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// String renders the schema for diagnostics, naming every column and index
// level
func (s *DataFrameSchema) String() string {
	parts := []string{fmt.Sprintf("DataFrameSchema(strict=%t, coerce=%t)", s.strict, s.coerce)}
	for _, name := range s.order {
		parts = append(parts, "  "+s.columns[name].String())
	}
	switch idx := s.index.(type) {
	case *Index:
		parts = append(parts, "  <index> "+idx.String())
	case *MultiIndex:
		for _, level := range idx.indexes {
			parts = append(parts, "  <index> "+level.String())
		}
	}
	for _, c := range s.checks {
		parts = append(parts, fmt.Sprintf("  <check> %s", c.Name()))
	}
	return strings.Join(parts, "\n")
}

// String renders one column spec on a single line
func (c *Column) String() string {
	return fmt.Sprintf("Column(%s)", c.spec.describe())
}

// String renders one index spec on a single line
func (ix *Index) String() string {
	return fmt.Sprintf("Index(%s)", ix.spec.describe())
}

// String renders a composite index spec
func (mi *MultiIndex) String() string {
	parts := make([]string, len(mi.indexes))
	for i, level := range mi.indexes {
		parts[i] = level.String()
	}
	return fmt.Sprintf("MultiIndex(%s)", strings.Join(parts, ", "))
}

// String renders a bare-series schema
func (s *SeriesSchema) String() string {
	return fmt.Sprintf("SeriesSchema(%s)", s.spec.describe())
}

func (s *SeriesSpec) describe() string {
	dtype := "any"
	if s.dtype != nil {
		dtype = s.dtype.Name()
	}
	var b strings.Builder
	if s.name != "" {
		fmt.Fprintf(&b, "%s: ", s.name)
	}
	b.WriteString(dtype)
	if s.nullable {
		b.WriteString(", nullable")
	}
	if !s.allowDuplicates {
		b.WriteString(", unique")
	}
	if s.coerce {
		b.WriteString(", coerce")
	}
	if len(s.checks) > 0 {
		names := make([]string, len(s.checks))
		for i, c := range s.checks {
			names[i] = c.Name()
		}
		fmt.Fprintf(&b, ", checks=[%s]", strings.Join(names, ", "))
	}
	return b.String()
}

// yamlSpec is the serialized form of one series-level spec
type yamlSpec struct {
	Name            string   `yaml:"name,omitempty"`
	DType           string   `yaml:"dtype"`
	Nullable        bool     `yaml:"nullable"`
	AllowDuplicates bool     `yaml:"allow_duplicates"`
	Coerce          bool     `yaml:"coerce,omitempty"`
	Required        *bool    `yaml:"required,omitempty"`
	Regex           bool     `yaml:"regex,omitempty"`
	Checks          []string `yaml:"checks,omitempty"`
}

type yamlSchema struct {
	Columns []yamlSpec `yaml:"columns"`
	Index   []yamlSpec `yaml:"index,omitempty"`
	Checks  []string   `yaml:"checks,omitempty"`
	Strict  bool       `yaml:"strict"`
	Coerce  bool       `yaml:"coerce"`
}

// ToYAML renders the schema declaration as YAML for diagnostics and review.
// Check predicates serialize by identifier only; the rendering is not a
// loadable schema definition.
func (s *DataFrameSchema) ToYAML() (string, error) {
	doc := yamlSchema{Strict: s.strict, Coerce: s.coerce}
	for _, name := range s.order {
		col := s.columns[name]
		spec := specToYAML(&col.spec)
		spec.Name = name
		spec.Regex = col.regex
		if !col.required {
			required := false
			spec.Required = &required
		}
		doc.Columns = append(doc.Columns, spec)
	}
	switch idx := s.index.(type) {
	case *Index:
		doc.Index = append(doc.Index, specToYAML(&idx.spec))
	case *MultiIndex:
		for _, level := range idx.indexes {
			doc.Index = append(doc.Index, specToYAML(&level.spec))
		}
	}
	for _, c := range s.checks {
		doc.Checks = append(doc.Checks, c.Name())
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func specToYAML(spec *SeriesSpec) yamlSpec {
	out := yamlSpec{
		Name:            spec.name,
		DType:           "any",
		Nullable:        spec.nullable,
		AllowDuplicates: spec.allowDuplicates,
		Coerce:          spec.coerce,
	}
	if spec.dtype != nil {
		out.DType = spec.dtype.Name()
	}
	for _, c := range spec.checks {
		out.Checks = append(out.Checks, c.Name())
	}
	return out
}
