package importer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/partnerpay/partnerpay/internal/sheet"
)

// XLSXLoader reads Excel workbooks. Numeric cells keep their raw value so
// amounts are never reparsed from display formatting.
type XLSXLoader struct{}

func (x *XLSXLoader) Format() string { return "xlsx" }

func (x *XLSXLoader) Load(r io.Reader, name string) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	wb := Workbook{Name: name}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return Workbook{}, fmt.Errorf("reading sheet %q: %w", sheetName, err)
		}
		grid := make([][]sheet.Cell, len(rows))
		for i, row := range rows {
			grid[i] = make([]sheet.Cell, len(row))
			for j, v := range row {
				grid[i][j] = xlsxCell(f, sheetName, i, j, v)
			}
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheetName, Rows: grid})
	}
	return wb, nil
}

func xlsxCell(f *excelize.File, sheetName string, row, col int, v string) sheet.Cell {
	if v == "" {
		return sheet.Empty()
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return sheet.Text(v)
	}
	typ, err := f.GetCellType(sheetName, axis)
	if err != nil {
		return sheet.Text(v)
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return sheet.Number(n)
		}
	}
	return sheet.Text(v)
}
