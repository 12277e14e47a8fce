package outwriter

import (
	"fmt"
	"io"

	"github.com/lootlens/lootlens/schema"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new workbook starts with.
const defaultSheet = "Sheet1"

// writeXLSX writes a workbook with one sheet per table with excelize. Numbers stay numeric.
func writeXLSX(w io.Writer, tables []table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, t := range tables {
		sheet := t.Sheet
		if sheet == "" {
			sheet = fmt.Sprintf("Report %d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		header := make([]any, len(t.Header))
		for j, h := range t.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}

		for r, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := xlsxValues(row)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// xlsxValues unwraps the cell types into values excelize stores natively.
func xlsxValues(row []any) []any {
	values := make([]any, len(row))
	for i, cell := range row {
		switch v := cell.(type) {
		case itemName:
			values[i] = string(v)
		case coins:
			values[i] = int64(v)
		case timestamp:
			values[i] = formatTimestamp(int64(v), nil)
		case schema.Rarity:
			values[i] = string(v.OrUnknown())
		default:
			values[i] = v
		}
	}
	return values
}
