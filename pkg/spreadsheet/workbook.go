// Package spreadsheet materialises tabular reports as an .xlsx workbook.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is one worksheet: a header row followed by value rows.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// Write renders the sheets, in order, into a single workbook.
func Write(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("spreadsheet: no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("spreadsheet: header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("spreadsheet: rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("spreadsheet: create sheet %q: %w", name, err)
		}

		if err := writeRow(f, name, 1, toRow(sheet.Columns)); err != nil {
			return err
		}
		if len(sheet.Columns) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
			if err := f.SetCellStyle(name, "A1", last, header); err != nil {
				return fmt.Errorf("spreadsheet: style header of %q: %w", name, err)
			}
		}
		for r, row := range sheet.Rows {
			if err := writeRow(f, name, r+2, row); err != nil {
				return err
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("spreadsheet: cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("spreadsheet: write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

func toRow(columns []string) []interface{} {
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	return row
}

// Excel caps sheet names at 31 characters.
func sheetName(name string, index int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
