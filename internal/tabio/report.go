package tabio

import (
	"strconv"

	"github.com/curvetools/curveconv/internal/convert"
)

// reportHeader is the fixed column layout of the diagnostic report.
var reportHeader = []string{"row_index", "work_title", "error_code", "error_detail"}

// WriteDiagnostics writes the diagnostic report as a CSV in processing
// order, one row per diagnostic.
func WriteDiagnostics(path string, diags []convert.Diagnostic) error {
	rows := make([][]string, len(diags))
	for i, d := range diags {
		rows[i] = []string{strconv.Itoa(d.RowIndex), d.WorkTitle, d.Code, d.Detail}
	}
	return writeCSV(path, reportHeader, rows)
}
