package aggregate

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/partnerpay/partnerpay/internal/invoice"
	"github.com/partnerpay/partnerpay/internal/model"
)

// DefaultPlayerGuarantee is the total guaranteed to players across all partners.
var DefaultPlayerGuarantee = decimal.RequireFromString("30439528.20")

// Options lists the filter values present in a payment list.
type Options struct {
	Months      []string // calendar order
	FiscalYears []string // ascending
}

// FilterOptions collects the distinct decoded months and fiscal years.
func FilterOptions(payments []model.Payment) Options {
	months := make(map[int]bool)
	years := make(map[string]bool)
	for _, p := range payments {
		period := invoice.Decode(p.InvoiceCode)
		if !period.Known() {
			continue
		}
		months[period.MonthNumber] = true
		years[period.FiscalYear] = true
	}

	var opts Options
	for i, name := range invoice.MonthNames() {
		if months[i+1] {
			opts.Months = append(opts.Months, name)
		}
	}
	for y := range years {
		opts.FiscalYears = append(opts.FiscalYears, y)
	}
	slices.Sort(opts.FiscalYears)
	return opts
}

// Detail is the single-partner view.
type Detail struct {
	Partner     model.Partner
	TotalSpent  decimal.Decimal
	Remaining   *decimal.Decimal // nil for flex-fund partners
	PlayerDeals int              // distinct non-empty deal IDs
	Series      []MonthPoint
	Payments    []model.Payment // after criteria
	FiscalYears []string        // descending
	Months      []string        // calendar order
}

// PartnerDetail builds the detail view for partner. Totals cover the
// filtered payments; filter options cover all of the partner's payments.
func PartnerDetail(partner model.Partner, payments []model.Payment, c Criteria) Detail {
	c.PartnerID = partner.ID
	own := Filter(payments, Criteria{PartnerID: partner.ID})
	filtered := Filter(own, c)

	opts := FilterOptions(own)
	years := slices.Clone(opts.FiscalYears)
	slices.Reverse(years)

	d := Detail{
		Partner:     partner,
		TotalSpent:  TotalSpent(filtered),
		PlayerDeals: countDeals(filtered),
		Series:      MonthlySeries(filtered),
		Payments:    filtered,
		FiscalYears: years,
		Months:      opts.Months,
	}
	if partner.HasCeiling() {
		remaining := partner.ContractTotal.Sub(d.TotalSpent)
		d.Remaining = &remaining
	}
	return d
}

func countDeals(payments []model.Payment) int {
	seen := make(map[string]bool)
	for _, p := range payments {
		if id := strings.TrimSpace(p.DealID); id != "" {
			seen[id] = true
		}
	}
	return len(seen)
}

// Summary is the admin overview.
type Summary struct {
	TotalSpent   decimal.Decimal
	Guarantee    decimal.Decimal
	Remaining    decimal.Decimal
	PaymentCount int
	Series       []MonthPoint
	ByPartner    []PartnerSpend
}

// Overview summarizes all payments against the player guarantee.
func Overview(payments []model.Payment, registry []model.Partner, guarantee decimal.Decimal) Summary {
	total := TotalSpent(payments)
	return Summary{
		TotalSpent:   total,
		Guarantee:    guarantee,
		Remaining:    guarantee.Sub(total),
		PaymentCount: len(payments),
		Series:       MonthlySeries(payments),
		ByPartner:    SpendByPartner(payments, registry),
	}
}

// PartnerTotal is one row of the partner list.
type PartnerTotal struct {
	Partner      model.Partner
	TotalSpent   decimal.Decimal
	PaymentCount int
}

// PartnerTotals reports spend and payment count for every registry partner,
// in registry order, including partners with no payments.
func PartnerTotals(payments []model.Payment, registry []model.Partner) []PartnerTotal {
	sums := sumByPartner(payments)
	counts := make(map[string]int)
	for _, p := range payments {
		counts[p.PartnerID]++
	}

	out := make([]PartnerTotal, 0, len(registry))
	for _, partner := range registry {
		out = append(out, PartnerTotal{
			Partner:      partner,
			TotalSpent:   sums[partner.ID].Add(decimal.Zero),
			PaymentCount: counts[partner.ID],
		})
	}
	return out
}
