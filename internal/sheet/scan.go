// Package sheet turns one worksheet's raw cells into normalized payment rows.
//
// The scanner locates the header row, resolves columns by keyword, and folds
// over the data rows carrying the last seen company name forward, so blank
// company cells under a merged-style block inherit the name above them.
package sheet

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Reason explains why a sheet or row was excluded.
type Reason string

const (
	ReasonTooFewRows       Reason = "too_few_rows"
	ReasonMissingHeaders   Reason = "missing_headers"
	ReasonEmptyRow         Reason = "empty_row"
	ReasonSubtotal         Reason = "subtotal_row"
	ReasonMissingPlayer    Reason = "missing_player"
	ReasonMissingPartner   Reason = "missing_partner"
	ReasonInvalidAmount    Reason = "invalid_amount"
	ReasonUnmatchedPartner Reason = "unmatched_partner"
)

// minRows is a header plus at least one data row.
const minRows = 2

// subtotalMarker in a player cell marks a subtotal or footer row.
const subtotalMarker = "total"

// RejectError reports a sheet that cannot be scanned at all.
type RejectError struct {
	Reason Reason
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("sheet rejected: %s", e.Reason)
}

// Skip records one excluded row.
type Skip struct {
	Sheet  string // filled in by callers that know the sheet name
	Row    int    // 1-based, as shown by spreadsheet applications
	Reason Reason
}

// Row is a normalized payment candidate. PartnerName is the raw company text
// (possibly carried forward); matching it to a partner is the caller's job.
type Row struct {
	Line              int // 1-based
	PartnerName       string
	PlayerName        string
	Amount            decimal.Decimal
	TotalPlayerAmount decimal.Decimal
	InvoiceCode       string
	DealType          string
	DealDetail        string
	BatchName         string
	DealID            string
}

// Result is the outcome of scanning one sheet.
type Result struct {
	HeaderRow int // 0-based index of the chosen header row
	Columns   Columns
	Rows      []Row
	Skips     []Skip
}

// Scan parses a sheet. It returns a *RejectError when the sheet has fewer than
// two rows or no header row (row 0, then row 1) with company, player and
// amount columns. Row-level problems never fail the scan; they become Skips.
func Scan(rows [][]Cell) (Result, error) {
	if len(rows) < minRows {
		return Result{}, &RejectError{Reason: ReasonTooFewRows}
	}

	headerRow := 0
	headers := normalizeHeader(rows[0])
	if !hasRequiredHeaders(headers) {
		headerRow = 1
		headers = normalizeHeader(rows[1])
		if !hasRequiredHeaders(headers) {
			return Result{}, &RejectError{Reason: ReasonMissingHeaders}
		}
	}

	cols, ok := resolveColumns(headers)
	if !ok {
		return Result{}, &RejectError{Reason: ReasonMissingHeaders}
	}

	var state rowState
	for i := headerRow + 1; i < len(rows); i++ {
		state = state.step(i+1, rows[i], cols)
	}

	return Result{
		HeaderRow: headerRow,
		Columns:   cols,
		Rows:      state.rows,
		Skips:     state.skips,
	}, nil
}

// rowState is the accumulator folded across a sheet's data rows.
type rowState struct {
	lastPartner string
	rows        []Row
	skips       []Skip
}

func (s rowState) skip(line int, reason Reason) rowState {
	s.skips = append(s.skips, Skip{Row: line, Reason: reason})
	return s
}

func (s rowState) step(line int, row []Cell, cols Columns) rowState {
	if isEmptyRow(row) {
		return s.skip(line, ReasonEmptyRow)
	}

	player := strings.TrimSpace(at(row, cols.Player).String())
	if strings.Contains(strings.ToLower(player), subtotalMarker) {
		return s.skip(line, ReasonSubtotal)
	}

	partner := strings.TrimSpace(at(row, cols.Partner).String())
	if partner != "" {
		s.lastPartner = partner
	} else {
		partner = s.lastPartner
	}

	if player == "" {
		return s.skip(line, ReasonMissingPlayer)
	}
	if partner == "" {
		return s.skip(line, ReasonMissingPartner)
	}

	amount, ok := parseAmount(at(row, cols.Amount))
	if !ok || !amount.IsPositive() {
		return s.skip(line, ReasonInvalidAmount)
	}

	totalPlayer, ok := parseAmount(at(row, cols.TotalPlayer))
	if !ok {
		totalPlayer = decimal.Zero
	}

	s.rows = append(s.rows, Row{
		Line:              line,
		PartnerName:       partner,
		PlayerName:        player,
		Amount:            amount,
		TotalPlayerAmount: totalPlayer,
		InvoiceCode:       text(row, cols.Invoice),
		DealType:          text(row, cols.DealType),
		DealDetail:        text(row, cols.DealDetail),
		BatchName:         text(row, cols.BatchName),
		DealID:            text(row, cols.DealID),
	})
	return s
}

func isEmptyRow(row []Cell) bool {
	for _, c := range row {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

func text(row []Cell, col int) string {
	return strings.TrimSpace(at(row, col).String())
}

var currencyStripper = strings.NewReplacer("$", "", ",", "")

// parseAmount coerces a cell to a monetary value. Numeric cells are used as
// is; text has "$" and "," removed and must then be a complete decimal literal.
func parseAmount(c Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(c.Number), true
	case KindText:
		s := strings.TrimSpace(currencyStripper.Replace(c.Text))
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
