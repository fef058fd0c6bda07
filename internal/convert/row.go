package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/curvetools/curveconv/internal/mapping"
	"github.com/curvetools/curveconv/internal/transform"
	"github.com/curvetools/curveconv/internal/validate"
)

// workTitleColumn is the destination column used to label diagnostics.
const workTitleColumn = "Work Title"

// Participant slot column name layouts. Slot numbers are 1-based.
const (
	participantNameColumn  = "Participant %d Name"
	mechanicalShareColumn  = "Participant %d Mechanical Share"
	performanceShareColumn = "Participant %d Performance Share"
)

// RowConverter converts one row at a time against an immutable schema.
// It holds no mutable state and is safe for concurrent use.
type RowConverter struct {
	schema *mapping.Schema
}

// NewRowConverter returns a converter for the given schema.
func NewRowConverter(schema *mapping.Schema) *RowConverter {
	return &RowConverter{schema: schema}
}

// Convert runs the four-stage pipeline for one row: resolve, transform,
// validate, aggregate. An output row is always produced; failures are
// accumulated as diagnostics and never abandon the row. index is the
// 1-based position of the row in the input.
func (c *RowConverter) Convert(row Row, index int) (OutputRow, []Diagnostic) {
	out := make(OutputRow, len(c.schema.Columns))
	byDest := make(map[string]string, len(c.schema.Columns))

	// Field errors are collected first and stamped with the work title
	// once the whole row is resolved, since the title column may come
	// after the column that failed.
	var fieldErrs []Diagnostic

	for i, col := range c.schema.Columns {
		value := c.resolve(row, col)

		if col.Transform != nil {
			transformed, err := c.applyTransform(row, col, value)
			if err != nil {
				fieldErrs = append(fieldErrs, Diagnostic{
					RowIndex: index,
					Code:     validate.CodeFieldError,
					Detail:   fmt.Sprintf("Transform error in %q: %v", col.Dest, err),
				})
				// Fall back to the resolved value and keep going.
			} else {
				value = transformed
			}
		}

		if col.Validation != nil {
			if ferr := col.Validation.Check(value, col.Dest); ferr != nil {
				fieldErrs = append(fieldErrs, Diagnostic{
					RowIndex: index,
					Code:     ferr.Code,
					Detail:   ferr.Detail,
				})
			}
		}

		out[i] = value
		byDest[col.Dest] = value
	}

	title := byDest[workTitleColumn]
	if title == "" {
		title = "Unknown"
	}
	for i := range fieldErrs {
		fieldErrs[i].WorkTitle = title
	}

	diags := append(fieldErrs, c.aggregateChecks(byDest, index, title)...)
	return out, diags
}

// resolve fetches the source value, substituting the column default when
// the source is missing or empty. The default applies before the
// transform, not after.
func (c *RowConverter) resolve(row Row, col mapping.ColumnMapping) string {
	if col.Source != "" {
		if v, ok := row[col.Source]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return col.Default
}

func (c *RowConverter) applyTransform(row Row, col mapping.ColumnMapping, value string) (string, error) {
	if col.Transform.Kind() == transform.KindConcat {
		parts := make([]string, len(col.Sources))
		for i, src := range col.Sources {
			v, ok := row[src]
			if !ok {
				return "", &transform.Error{
					Kind:   transform.ErrConcatSourceMissing,
					Detail: fmt.Sprintf("source column %q not present in row", src),
				}
			}
			parts[i] = strings.TrimSpace(v)
		}
		return col.Transform.Join(parts), nil
	}
	return col.Transform.Apply(value)
}

// aggregateChecks runs the row-level validations over the finished output
// values: the share-total checks and the required output field set.
func (c *RowConverter) aggregateChecks(byDest map[string]string, index int, title string) []Diagnostic {
	var diags []Diagnostic

	for _, field := range c.schema.Rules.RequiredFields {
		if strings.TrimSpace(byDest[field]) == "" {
			diags = append(diags, Diagnostic{
				RowIndex:  index,
				WorkTitle: title,
				Code:      validate.CodeRequiredFieldMissing,
				Detail:    fmt.Sprintf("Required field %q is empty", field),
			})
		}
	}

	mech := c.shareTotal(byDest, mechanicalShareColumn)
	perf := c.shareTotal(byDest, performanceShareColumn)
	// The epsilon absorbs binary float error from parsing decimal shares,
	// so a total of exactly 99.99 stays inside a 0.01 tolerance.
	tol := c.schema.Rules.ShareTolerance + 1e-9

	if mech.active && math.Abs(mech.total-100) > tol {
		diags = append(diags, Diagnostic{
			RowIndex:  index,
			WorkTitle: title,
			Code:      CodeMechanicalSharesInvalid,
			Detail:    fmt.Sprintf("Mechanical shares total %s%%, should be 100%%", formatShare(mech.total)),
		})
	}
	if perf.active && math.Abs(perf.total-100) > tol {
		diags = append(diags, Diagnostic{
			RowIndex:  index,
			WorkTitle: title,
			Code:      CodePerformanceSharesInvalid,
			Detail:    fmt.Sprintf("Performance shares total %s%%, should be 100%%", formatShare(perf.total)),
		})
	}

	return diags
}

type shareSum struct {
	total  float64
	active bool
}

// shareTotal sums one share family across the participant slots. A slot
// contributes only when it has data: slots whose share and name are both
// empty are excluded rather than treated as zero-contributing errors, so
// a work with three writers does not fail on the seven unused slots. Rows
// with no populated slot at all leave the check inactive.
func (c *RowConverter) shareTotal(byDest map[string]string, shareLayout string) shareSum {
	var sum shareSum
	for i := 1; i <= c.schema.Rules.MaxParticipants; i++ {
		share := strings.TrimSpace(byDest[fmt.Sprintf(shareLayout, i)])
		name := strings.TrimSpace(byDest[fmt.Sprintf(participantNameColumn, i)])
		if share == "" && name == "" {
			continue
		}
		sum.active = true
		if share == "" {
			continue
		}
		f, err := strconv.ParseFloat(share, 64)
		if err != nil {
			// Non-numeric shares are reported by the column's own
			// share_range validation; they contribute nothing here.
			continue
		}
		sum.total += f
	}
	return sum
}

func formatShare(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
