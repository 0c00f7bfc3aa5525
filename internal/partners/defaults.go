package partners

import (
	"github.com/shopspring/decimal"

	"github.com/partnerpay/partnerpay/internal/model"
)

// SamplePartners returns the partners seeded into a fresh project by `init --seed`.
func SamplePartners() []model.Partner {
	return []model.Partner{
		{Name: "Nike", ContractTotal: decimal.NewFromInt(5_000_000)},
		{Name: "Gatorade", ContractTotal: decimal.NewFromInt(3_000_000)},
		{Name: "EA Sports", IsFlexFund: true},
	}
}
