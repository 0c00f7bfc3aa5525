package importer

import "github.com/partnerpay/partnerpay/internal/sheet"

// Workbook is a multi-sheet table with sheets in workbook order.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// Sheet is one named grid of cells.
type Sheet struct {
	Name string
	Rows [][]sheet.Cell
}
