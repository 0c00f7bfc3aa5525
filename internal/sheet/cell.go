package sheet

import (
	"strconv"
	"strings"
)

// Kind classifies a spreadsheet cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Cell is one spreadsheet cell value.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
}

// Text returns a text cell. Blank text is still a text cell; IsBlank reports it.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{Kind: KindNumber, Number: f} }

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// String renders the cell as text. Numbers use the shortest exact form.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// IsBlank reports whether the cell is empty or whitespace-only text.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case KindNumber:
		return false
	case KindText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return true
	}
}

// at returns row[i], or an empty cell when i is absent or out of range.
func at(row []Cell, i int) Cell {
	if i < 0 || i >= len(row) {
		return Empty()
	}
	return row[i]
}
