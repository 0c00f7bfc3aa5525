package invoice

import (
	"strings"

	"github.com/partnerpay/partnerpay/internal/model"
)

// minSegments is the fewest hyphen-separated segments a decodable code can have:
// fiscal year, at least one batch/sequence segment, month code.
const minSegments = 3

var monthCodes = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Decode derives the fiscal period from an invoice code like "2024-001-JAN".
// Malformed codes decode to model.UnknownPeriod.
func Decode(code string) model.FiscalPeriod {
	parts := strings.Split(code, "-")
	if len(parts) < minSegments {
		return model.UnknownPeriod()
	}

	n := monthNumber(strings.ToUpper(parts[len(parts)-1]))
	if n == 0 {
		return model.UnknownPeriod()
	}

	fiscalYear := parts[0]
	return model.FiscalPeriod{
		FiscalYear:  fiscalYear,
		Month:       monthNames[n-1],
		MonthNumber: n,
		DisplayYear: "FY" + fiscalYear,
	}
}

func monthNumber(code string) int {
	for i, c := range monthCodes {
		if c == code {
			return i + 1
		}
	}
	return 0
}

// MonthCode returns the three-letter code for a month given by full name
// ("January") or code ("jan"), case-insensitively.
func MonthCode(month string) (string, bool) {
	m := strings.TrimSpace(month)
	for i, name := range monthNames {
		if strings.EqualFold(m, name) || strings.EqualFold(m, monthCodes[i]) {
			return monthCodes[i], true
		}
	}
	return "", false
}

// MonthNames returns the month names in calendar order.
func MonthNames() []string {
	names := make([]string, len(monthNames))
	copy(names, monthNames)
	return names
}

// ShortMonth returns "Jan".."Dec" for month numbers 1-12, or "" otherwise.
func ShortMonth(n int) string {
	if n < 1 || n > len(monthNames) {
		return ""
	}
	return monthNames[n-1][:3]
}
