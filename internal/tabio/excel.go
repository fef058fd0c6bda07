package tabio

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func excelizeNewFile() *excelize.File {
	return excelize.NewFile()
}

// setSheetRow writes one row of cells starting at column A of the given
// 1-based row number.
func setSheetRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
