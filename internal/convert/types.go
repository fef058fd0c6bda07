// Package convert runs the mapping-driven conversion: per-row resolve /
// transform / validate stages plus the row-level aggregate checks, and the
// batch driver that accumulates the output table and diagnostic report.
package convert

import (
	"fmt"
	"time"
)

// Diagnostic codes for row-level aggregate failures. Field-level codes
// live in the validate package.
const (
	CodeMechanicalSharesInvalid  = "MECHANICAL_SHARES_INVALID"
	CodePerformanceSharesInvalid = "PERFORMANCE_SHARES_INVALID"
)

// Row is one input row, keyed by source column name. Rows are consumed
// read-only; transforms produce new values.
type Row map[string]string

// OutputRow holds the transformed values in the schema's destination
// column order.
type OutputRow []string

// Diagnostic is a single row-scoped transform or validation issue.
type Diagnostic struct {
	RowIndex  int
	WorkTitle string
	Code      string
	Detail    string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d (%s) %s: %s", d.RowIndex, d.WorkTitle, d.Code, d.Detail)
}

// Result is the outcome of one batch run.
type Result struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Header lists the output column names in destination order.
	Header []string

	// OutputRows has exactly one entry per input row, in input order.
	OutputRows []OutputRow

	// Diagnostics are ordered by ascending row index.
	Diagnostics []Diagnostic

	RowsProcessed int
	Duration      time.Duration

	// Succeeded is false iff strict mode is active and any diagnostic
	// was produced. Diagnostics themselves are unaffected by the mode.
	Succeeded bool
}

// RowsFromRecords builds Rows from a header and raw records. Records
// shorter than the header are padded with empty values.
func RowsFromRecords(header []string, records [][]string) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(header))
		for j, col := range header {
			if j < len(rec) {
				row[col] = rec[j]
			} else {
				row[col] = ""
			}
		}
		rows[i] = row
	}
	return rows
}
