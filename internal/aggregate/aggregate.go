// Package aggregate computes dashboard figures from payment lists.
//
// Every function is a pure query over its arguments: no state is kept between
// calls and an empty input yields zero values.
package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/partnerpay/partnerpay/internal/invoice"
	"github.com/partnerpay/partnerpay/internal/model"
)

// MonthPoint is one bar of the monthly spend series.
type MonthPoint struct {
	FiscalYear  string
	MonthNumber int
	Label       string // "Jan FY2024"
	Amount      decimal.Decimal
}

// PartnerSpend is one partner's share of total spend.
type PartnerSpend struct {
	PartnerID   string
	PartnerName string
	Amount      decimal.Decimal
}

// Criteria narrows a payment list. Empty fields match everything.
type Criteria struct {
	PartnerID  string
	Player     string // case-insensitive substring of the player name
	Month      string // month name or three-letter code, any case
	FiscalYear string // decoded fiscal year, or its "FY" display form
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// TotalSpent sums payment amounts.
func TotalSpent(payments []model.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

type monthKey struct {
	fiscalYear  string
	monthNumber int
}

// MonthlySeries groups spend by decoded fiscal year and month, ascending.
// Payments whose invoice code does not decode are left out.
func MonthlySeries(payments []model.Payment) []MonthPoint {
	sums := make(map[monthKey]decimal.Decimal)
	for _, p := range payments {
		period := invoice.Decode(p.InvoiceCode)
		if !period.Known() {
			continue
		}
		k := monthKey{period.FiscalYear, period.MonthNumber}
		sums[k] = sums[k].Add(p.Amount)
	}

	points := make([]MonthPoint, 0, len(sums))
	for k, amount := range sums {
		points = append(points, MonthPoint{
			FiscalYear:  k.fiscalYear,
			MonthNumber: k.monthNumber,
			Label:       invoice.ShortMonth(k.monthNumber) + " FY" + k.fiscalYear,
			Amount:      amount,
		})
	}
	slices.SortFunc(points, func(a, b MonthPoint) int {
		if c := strings.Compare(a.FiscalYear, b.FiscalYear); c != 0 {
			return c
		}
		return cmp.Compare(a.MonthNumber, b.MonthNumber)
	})
	return points
}

// SpendByPartner sums spend per registry partner, drops partners with no
// spend and orders the rest by amount descending. Ties keep registry order.
func SpendByPartner(payments []model.Payment, registry []model.Partner) []PartnerSpend {
	sums := sumByPartner(payments)

	var out []PartnerSpend
	for _, partner := range registry {
		amount, ok := sums[partner.ID]
		if !ok || amount.IsZero() {
			continue
		}
		out = append(out, PartnerSpend{PartnerID: partner.ID, PartnerName: partner.Name, Amount: amount})
	}
	slices.SortStableFunc(out, func(a, b PartnerSpend) int {
		return b.Amount.Cmp(a.Amount)
	})
	return out
}

func sumByPartner(payments []model.Payment) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, p := range payments {
		sums[p.PartnerID] = sums[p.PartnerID].Add(p.Amount)
	}
	return sums
}

// Filter returns the payments matching every set criterion, in input order.
func Filter(payments []model.Payment, c Criteria) []model.Payment {
	player := strings.ToLower(strings.TrimSpace(c.Player))
	month := strings.TrimSpace(c.Month)
	monthCode, _ := invoice.MonthCode(month)
	year := strings.TrimSpace(c.FiscalYear)

	var out []model.Payment
	for _, p := range payments {
		if c.PartnerID != "" && p.PartnerID != c.PartnerID {
			continue
		}
		if player != "" && !strings.Contains(strings.ToLower(p.PlayerName), player) {
			continue
		}
		if month != "" || year != "" {
			period := invoice.Decode(p.InvoiceCode)
			if month != "" && !matchMonth(period, month, monthCode) {
				continue
			}
			if year != "" && !matchYear(period, year) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func matchMonth(period model.FiscalPeriod, month, code string) bool {
	if strings.EqualFold(period.Month, month) {
		return true
	}
	if code == "" || !period.Known() {
		return false
	}
	periodCode, _ := invoice.MonthCode(period.Month)
	return periodCode == code
}

func matchYear(period model.FiscalPeriod, year string) bool {
	if !period.Known() {
		return false
	}
	return period.FiscalYear == year || strings.EqualFold(period.DisplayYear, year)
}
