package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Partner is a canonical sponsor in the partner registry.
type Partner struct {
	ID            string
	Name          string          // unique as stored, matched case-insensitively
	ContractTotal decimal.Decimal // zero for flex-fund partners
	IsFlexFund    bool            // contract total is not a spending ceiling
	CreatedAt     time.Time
}

// HasCeiling reports whether the contract total caps spending for the partner.
func (p Partner) HasCeiling() bool {
	return !p.IsFlexFund
}
