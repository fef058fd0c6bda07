package tabio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

const outputSheet = "Sheet1"

// WriteTable writes a header and data rows to path, as XLSX when the
// extension says so and CSV otherwise.
func WriteTable(path string, header []string, rows [][]string) error {
	if IsSpreadsheet(path) {
		return writeSheet(path, header, rows)
	}
	return writeCSV(path, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func writeSheet(path string, header []string, rows [][]string) error {
	f := excelizeNewFile()
	defer f.Close()

	if err := setSheetRow(f, outputSheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setSheetRow(f, outputSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ErrorReportPath derives the diagnostic report path from the output
// path: the extension is replaced with "_errors.csv".
func ErrorReportPath(outPath string) string {
	base := outPath
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base + "_errors.csv"
}
