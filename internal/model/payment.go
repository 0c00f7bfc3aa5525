package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single disbursement to a player on behalf of a partner.
type Payment struct {
	ID                string // empty until persisted
	PartnerID         string
	PlayerName        string
	Amount            decimal.Decimal // always > 0
	TotalPlayerAmount decimal.Decimal // opaque figure carried from the source sheet, may be zero
	InvoiceCode       string
	DealType          string
	DealDetail        string
	BatchName         string
	DealID            string
	CreatedAt         time.Time
}
