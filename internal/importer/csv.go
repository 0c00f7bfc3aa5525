package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/partnerpay/partnerpay/internal/sheet"
)

// utf8BOM is stripped from the first field of exported CSVs.
const utf8BOM = "\ufeff"

// CSVLoader reads a single-sheet CSV export. Every non-empty field is text;
// amount parsing happens in the sheet scanner.
type CSVLoader struct{}

func (c *CSVLoader) Format() string { return "csv" }

func (c *CSVLoader) Load(r io.Reader, name string) (Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Workbook{}, fmt.Errorf("reading CSV: %w", err)
	}

	grid := make([][]sheet.Cell, len(records))
	for i, rec := range records {
		grid[i] = make([]sheet.Cell, len(rec))
		for j, v := range rec {
			if i == 0 && j == 0 {
				v = strings.TrimPrefix(v, utf8BOM)
			}
			if v == "" {
				grid[i][j] = sheet.Empty()
				continue
			}
			grid[i][j] = sheet.Text(v)
		}
	}

	sheetName := strings.TrimSuffix(name, filepath.Ext(name))
	return Workbook{Name: name, Sheets: []Sheet{{Name: sheetName, Rows: grid}}}, nil
}
