// Package tabio reads and writes the tabular files surrounding the
// conversion core: CSV and XLSX input tables, the converted output table,
// and the diagnostic report. Format is chosen by file extension; the
// engine itself never touches a file.
package tabio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is an in-memory tabular file: a header row plus data records.
type Table struct {
	Header  []string
	Records [][]string
}

// IsSpreadsheet reports whether the path names an Excel workbook.
func IsSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// ReadTable loads a CSV or XLSX file. The first row is the header; short
// data records are padded to the header width.
func ReadTable(path string) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	if IsSpreadsheet(path) {
		rows, err = readSheetRows(path)
	} else {
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: file has no header row", path)
	}

	header := trimAll(rows[0])
	records := rows[1:]
	for i, rec := range records {
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			records[i] = padded
		}
	}
	return &Table{Header: header, Records: records}, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func readSheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
