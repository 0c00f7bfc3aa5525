package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/partnerpay/partnerpay/internal/log"
	"github.com/partnerpay/partnerpay/internal/model"
	"github.com/partnerpay/partnerpay/internal/partners"
	"github.com/partnerpay/partnerpay/internal/sheet"
)

// ErrNoValidPayments is returned by Report.Err when an upload produced nothing to persist.
var ErrNoValidPayments = errors.New("no valid payments found, check partner name matching")

// SheetResult describes what happened to one sheet.
type SheetResult struct {
	Name      string
	Accepted  bool         // header found and columns resolved
	Reason    sheet.Reason // set when not accepted
	HeaderRow int          // 0-based, meaningful when accepted
	Payments  int
}

// Report is the outcome of ingesting one workbook. It is not persisted.
type Report struct {
	Workbook        string
	SheetsScanned   int
	SheetsProcessed int      // sheets that produced at least one payment
	Sheets          []SheetResult
	Summary         []string // "<sheet> (<count>)" for processed sheets
	Payments        []model.Payment
	Skips           []sheet.Skip
	Unmatched       int
}

// Err returns ErrNoValidPayments when the report holds no payments.
func (r *Report) Err() error {
	if len(r.Payments) == 0 {
		return ErrNoValidPayments
	}
	return nil
}

// Message renders the user-facing outcome line.
func (r *Report) Message() string {
	if err := r.Err(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Success! Loaded %d payments from %d sheet(s): %s",
		len(r.Payments), r.SheetsProcessed, strings.Join(r.Summary, ", "))
}

// SkipCounts tallies excluded rows by reason.
func (r *Report) SkipCounts() map[sheet.Reason]int {
	counts := make(map[sheet.Reason]int)
	for _, s := range r.Skips {
		counts[s.Reason]++
	}
	return counts
}

// Ingestor turns workbooks into payments. The zero value uses the default
// containment matcher and discards logs.
type Ingestor struct {
	Matcher partners.Matcher
	Logger  *log.Logger
}

// Ingest is shorthand for an Ingestor with the given matcher.
func Ingest(wb Workbook, registry []model.Partner, matcher partners.Matcher) *Report {
	return Ingestor{Matcher: matcher}.Ingest(wb, registry)
}

// Ingest scans every sheet, matches partner names against registry and
// collects payments in sheet order, then row order. It has no side effects.
func (in Ingestor) Ingest(wb Workbook, registry []model.Partner) *Report {
	matcher := in.Matcher
	if matcher == nil {
		matcher = partners.ContainsMatcher{}
	}
	logger := in.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.With(log.FieldFile, wb.Name)

	report := &Report{Workbook: wb.Name}
	for _, sh := range wb.Sheets {
		report.SheetsScanned++

		res, err := sheet.Scan(sh.Rows)
		if err != nil {
			reason := sheet.ReasonMissingHeaders
			var rej *sheet.RejectError
			if errors.As(err, &rej) {
				reason = rej.Reason
			}
			report.Sheets = append(report.Sheets, SheetResult{Name: sh.Name, Reason: reason})
			logger.Debug("sheet skipped", log.FieldSheet, sh.Name, log.FieldReason, string(reason))
			continue
		}

		for _, s := range res.Skips {
			s.Sheet = sh.Name
			report.Skips = append(report.Skips, s)
		}

		count := 0
		for _, row := range res.Rows {
			partner, ok := matcher.Match(row.PartnerName, registry)
			if !ok {
				report.Unmatched++
				report.Skips = append(report.Skips, sheet.Skip{
					Sheet:  sh.Name,
					Row:    row.Line,
					Reason: sheet.ReasonUnmatchedPartner,
				})
				logger.Debug("partner not matched",
					log.FieldSheet, sh.Name, log.FieldRow, row.Line, "partner_name", row.PartnerName)
				continue
			}
			report.Payments = append(report.Payments, newPayment(partner, row))
			count++
		}

		report.Sheets = append(report.Sheets, SheetResult{
			Name:      sh.Name,
			Accepted:  true,
			HeaderRow: res.HeaderRow,
			Payments:  count,
		})
		if count > 0 {
			report.SheetsProcessed++
			report.Summary = append(report.Summary, fmt.Sprintf("%s (%d)", sh.Name, count))
		}
		logger.Debug("sheet scanned", log.FieldSheet, sh.Name, log.FieldCount, count)
	}
	return report
}

func newPayment(p model.Partner, row sheet.Row) model.Payment {
	return model.Payment{
		PartnerID:         p.ID,
		PlayerName:        row.PlayerName,
		Amount:            row.Amount,
		TotalPlayerAmount: row.TotalPlayerAmount,
		InvoiceCode:       row.InvoiceCode,
		DealType:          row.DealType,
		DealDetail:        row.DealDetail,
		BatchName:         row.BatchName,
		DealID:            row.DealID,
	}
}
