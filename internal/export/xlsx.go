package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Estimate"

// WriteXLSX writes the same records as WriteCSV to a single-sheet workbook.
func WriteXLSX(w io.Writer, q Quote) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 42); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 18); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, rec := range Records(q) {
		if len(rec) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
		if isHeader(rec[0]) {
			if err := f.SetCellStyle(SheetName, cell, cell, boldStyle); err != nil {
				return fmt.Errorf("style row %d: %w", i+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func isHeader(s string) bool {
	switch s {
	case headerDetails, headerItems, headerRooms, headerNote:
		return true
	}
	return false
}
