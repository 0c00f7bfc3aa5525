package payments

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/partnerpay/partnerpay/internal/invoice"
	"github.com/partnerpay/partnerpay/internal/model"
)

// Header is the CSV header of a payment export.
const Header = "id,partner_id,partner_name,player_name,amount,total_player_amount,invoice_code,fiscal_year,month,deal_type,deal_detail,batch_name,deal_id"

const (
	numFields      = 13
	colID          = 0
	colPartnerID   = 1
	colPartnerName = 2
	colPlayer      = 3
	colAmount      = 4
	colTotalPlayer = 5
	colInvoice     = 6
	colFiscalYear  = 7
	colMonth       = 8
	colDealType    = 9
	colDealDetail  = 10
	colBatch       = 11
	colDealID      = 12
)

// PartnerNamer resolves partner IDs to display names.
type PartnerNamer interface {
	Name(id string) string
}

// WritePayments writes payments to w (including header).
func WritePayments(w io.Writer, ps []model.Payment, names PartnerNamer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range ps {
		if err := cw.Write(MarshalPayment(p, names.Name(p.PartnerID))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalPayment converts a Payment to a CSV row. The fiscal period columns
// are decoded from the invoice code at export time.
func MarshalPayment(p model.Payment, partnerName string) []string {
	period := invoice.Decode(p.InvoiceCode)

	row := make([]string, numFields)
	row[colID] = p.ID
	row[colPartnerID] = p.PartnerID
	row[colPartnerName] = partnerName
	row[colPlayer] = p.PlayerName
	row[colAmount] = p.Amount.StringFixed(2)
	if !p.TotalPlayerAmount.IsZero() {
		row[colTotalPlayer] = p.TotalPlayerAmount.StringFixed(2)
	}
	row[colInvoice] = p.InvoiceCode
	row[colFiscalYear] = period.FiscalYear
	row[colMonth] = period.Month
	row[colDealType] = p.DealType
	row[colDealDetail] = p.DealDetail
	row[colBatch] = p.BatchName
	row[colDealID] = p.DealID
	return row
}
