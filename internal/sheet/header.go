package sheet

import "strings"

// absent is the column index of an optional field missing from the header.
const absent = -1

// Keyword lists per field. A column matches when its header contains any
// keyword of the list.
var (
	partnerKeywords     = []string{"company name", "company", "partner"}
	playerKeywords      = []string{"player name", "player"}
	amountKeywords      = []string{"deal invoice amount", "invoice amount", "amount"}
	totalPlayerKeywords = []string{"total player amount", "total player"}
	invoiceKeywords     = []string{"invoice number", "invoice"}
	dealTypeKeywords    = []string{"deal type"}
	dealDetailKeywords  = []string{"deal detail"}
	batchNameKeywords   = []string{"batch name", "batch"}
	dealIDKeywords      = []string{"deal id", "deal_id"}
)

// Header validity families: a valid header has a cell matching each one.
var requiredFamilies = [][]string{
	{"company", "partner"},
	{"player"},
	{"amount"},
}

// Columns holds resolved column indexes. Optional fields are -1 when absent.
type Columns struct {
	Partner     int
	Player      int
	Amount      int
	TotalPlayer int
	Invoice     int
	DealType    int
	DealDetail  int
	BatchName   int
	DealID      int
}

// normalizeHeader lowercases and trims every header cell.
func normalizeHeader(row []Cell) []string {
	headers := make([]string, len(row))
	for i, c := range row {
		headers[i] = strings.ToLower(strings.TrimSpace(c.String()))
	}
	return headers
}

func hasRequiredHeaders(headers []string) bool {
	for _, family := range requiredFamilies {
		if findColumn(headers, family, nil) == absent {
			return false
		}
	}
	return true
}

// findColumn returns the first unclaimed header cell, left to right, that
// contains any of the keywords, or absent.
func findColumn(headers []string, keywords []string, claimed map[int]bool) int {
	for i, h := range headers {
		if h == "" || claimed[i] {
			continue
		}
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return i
			}
		}
	}
	return absent
}

// resolveColumns maps every field to its header column; no column serves two
// fields. ok is false when a required field is missing.
func resolveColumns(headers []string) (Columns, bool) {
	claimed := make(map[int]bool)
	claim := func(keywords []string) int {
		i := findColumn(headers, keywords, claimed)
		if i != absent {
			claimed[i] = true
		}
		return i
	}

	var cols Columns
	cols.Partner = claim(partnerKeywords)
	// "Total Player Amount" contains both "player" and "amount". It is claimed
	// before either so neither field reads it, unless it is the only
	// amount-like header.
	cols.TotalPlayer = claim(totalPlayerKeywords)
	cols.Player = claim(playerKeywords)
	cols.Amount = claim(amountKeywords)
	if cols.Amount == absent && cols.TotalPlayer != absent {
		cols.Amount, cols.TotalPlayer = cols.TotalPlayer, absent
	}
	cols.Invoice = claim(invoiceKeywords)
	cols.DealType = claim(dealTypeKeywords)
	cols.DealDetail = claim(dealDetailKeywords)
	cols.BatchName = claim(batchNameKeywords)
	cols.DealID = claim(dealIDKeywords)

	ok := cols.Partner != absent && cols.Player != absent && cols.Amount != absent
	return cols, ok
}
