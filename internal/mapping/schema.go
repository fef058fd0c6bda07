// Package mapping defines the declarative conversion schema: destination
// columns with their source, transform and validation rules, the shared
// lookup tables, and the row-level validation settings. The schema is
// loaded from YAML once per run and is immutable afterwards; every raw
// directive string is compiled into its typed form at load time so the
// per-row path never sees an unrecognized rule.
package mapping

import (
	"fmt"

	"github.com/curvetools/curveconv/internal/transform"
	"github.com/curvetools/curveconv/internal/validate"
)

// ColumnMapping is one destination column of the output table.
type ColumnMapping struct {
	// Dest is the destination column name. Unique across the schema.
	Dest string

	// Source is the source column the value is read from. Several
	// mappings may read the same source column.
	Source string

	// Sources lists the source columns of a concat transform. Empty for
	// all other transforms.
	Sources []string

	// Default is substituted when the source value is missing or empty,
	// before the transform runs.
	Default string

	// Transform is the compiled transform, or nil.
	Transform *transform.Spec

	// Validation is the compiled validation rule, or nil.
	Validation *validate.Rule
}

// Registry holds the named lookup tables shared by all rows. Read-only
// after load.
type Registry map[string]map[string]string

// Lookup resolves a source value in the named table. Matches are exact
// and case-sensitive.
func (r Registry) Lookup(table, key string) (string, bool) {
	entries, ok := r[table]
	if !ok {
		return "", false
	}
	code, ok := entries[key]
	return code, ok
}

// Values returns the set of canonical codes in a table.
func (r Registry) Values(table string) map[string]bool {
	values := make(map[string]bool, len(r[table]))
	for _, code := range r[table] {
		values[code] = true
	}
	return values
}

// ValidationRules are the row-level validation settings.
type ValidationRules struct {
	// RequiredFields lists destination columns that must be non-empty in
	// the output row, independent of any per-column required rule.
	RequiredFields []string

	// MaxParticipants is the number of participant slots checked by the
	// share-total validation.
	MaxParticipants int

	// ShareTolerance is the allowed deviation, in percentage points, of
	// a share total from 100.
	ShareTolerance float64

	// Identifier pattern overrides for the *_format validations.
	ISWCPattern string
	ISRCPattern string
	IPIPattern  string
}

// Schema is the full compiled mapping schema.
type Schema struct {
	Columns []ColumnMapping
	Lookups Registry
	Rules   ValidationRules
}

// DestColumns returns the destination column names in declaration order.
// This order is the output table's column order.
func (s *Schema) DestColumns() []string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.Dest
	}
	return cols
}

// SchemaError is a fault in the mapping schema itself. Schema errors are
// fatal: they abort the run before any row is processed.
type SchemaError struct {
	Column string // destination column, when the fault is column-scoped
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema error in column %q: %s", e.Column, e.Detail)
	}
	return fmt.Sprintf("schema error: %s", e.Detail)
}
