// Package xlsxexport writes extraction results as an Excel workbook.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"claimscan/internal/csvexport"
)

// SheetName is the worksheet holding one row per document.
const SheetName = "Extractions"

// Write renders rows into a single-sheet workbook and writes it to w. Field
// values keep their extracted type, so numbers and booleans stay numeric and
// logical cells.
func Write(w io.Writer, fields []string, rows []csvexport.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	header := csvexport.Header(fields)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(SheetName, first, last, headerStyle); err != nil {
		return err
	}

	metadataCount := len(header) - len(fields)
	for r := range rows {
		record := csvexport.Record(&rows[r], fields)
		for c, v := range record {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, cellValue(&rows[r], fields, c-metadataCount, v)); err != nil {
				return err
			}
		}
	}

	for i := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, col, col, 18)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// cellValue returns the typed field value for field columns and the rendered
// text everywhere else.
func cellValue(row *csvexport.Row, fields []string, fieldIndex int, rendered string) any {
	if fieldIndex < 0 || row.Extraction == nil {
		return rendered
	}
	switch v := row.Extraction.Data[fields[fieldIndex]].(type) {
	case float64, bool, int:
		return v
	}
	return rendered
}
