package model

// UnknownMonth is the month name of a period that could not be decoded.
const UnknownMonth = "Unknown"

// FiscalPeriod is derived from an invoice code on demand and never stored.
type FiscalPeriod struct {
	FiscalYear  string // first invoice code segment, verbatim
	Month       string // "January".."December" or UnknownMonth
	MonthNumber int    // 1-12, 0 when unknown
	DisplayYear string // "FY" + FiscalYear, empty when unknown
}

// UnknownPeriod returns the sentinel period for undecodable invoice codes.
func UnknownPeriod() FiscalPeriod {
	return FiscalPeriod{Month: UnknownMonth}
}

// Known reports whether the period was decoded from a well-formed code.
func (p FiscalPeriod) Known() bool {
	return p.FiscalYear != "" && p.MonthNumber != 0
}
