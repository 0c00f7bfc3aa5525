package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerpay/partnerpay/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var registry = []model.Partner{
	{ID: "nike", Name: "Nike", ContractTotal: dec("5000000")},
	{ID: "gatorade", Name: "Gatorade", ContractTotal: dec("3000000")},
	{ID: "ea", Name: "EA Sports", IsFlexFund: true},
}

func pay(partnerID, player, amount, code string) model.Payment {
	return model.Payment{PartnerID: partnerID, PlayerName: player, Amount: dec(amount), InvoiceCode: code}
}

func sample() []model.Payment {
	return []model.Payment{
		pay("nike", "Jordan Smith", "100", "2024-001-JAN"),
		pay("gatorade", "Alex Jordan", "250.50", "2024-002-FEB"),
		pay("nike", "Casey Lee", "50", "2023-009-DEC"),
		pay("ea", "Sam Park", "75", "BAD"),
		pay("nike", "Jordan Smith", "25", "2024-010-jan"),
	}
}

func TestTotalSpent(t *testing.T) {
	assert.True(t, dec("500.50").Equal(TotalSpent(sample())))
	assert.True(t, TotalSpent(nil).IsZero())
}

func TestMonthlySeries(t *testing.T) {
	series := MonthlySeries(sample())
	require.Len(t, series, 3)

	assert.Equal(t, "Dec FY2023", series[0].Label)
	assert.Equal(t, "2023", series[0].FiscalYear)
	assert.Equal(t, 12, series[0].MonthNumber)

	assert.Equal(t, "Jan FY2024", series[1].Label)
	assert.True(t, dec("125").Equal(series[1].Amount))

	assert.Equal(t, "Feb FY2024", series[2].Label)
	assert.True(t, dec("250.50").Equal(series[2].Amount))
}

func TestMonthlySeries_UnknownExcludedButCounted(t *testing.T) {
	ps := []model.Payment{pay("ea", "P", "10", "nope"), pay("ea", "P", "5", "2024-1-MAR")}
	series := MonthlySeries(ps)
	require.Len(t, series, 1)
	assert.True(t, dec("5").Equal(series[0].Amount))
	assert.True(t, dec("15").Equal(TotalSpent(ps)))
}

func TestMonthlySeries_Empty(t *testing.T) {
	assert.Empty(t, MonthlySeries(nil))
}

func TestSpendByPartner(t *testing.T) {
	spend := SpendByPartner(sample(), registry)
	require.Len(t, spend, 3)
	assert.Equal(t, "Gatorade", spend[0].PartnerName)
	assert.True(t, dec("250.50").Equal(spend[0].Amount))
	assert.Equal(t, "Nike", spend[1].PartnerName)
	assert.True(t, dec("175").Equal(spend[1].Amount))
	assert.Equal(t, "EA Sports", spend[2].PartnerName)
}

func TestSpendByPartner_DropsZeroAndKeepsRegistryOrderOnTies(t *testing.T) {
	ps := []model.Payment{
		pay("ea", "A", "10", ""),
		pay("nike", "B", "10", ""),
	}
	spend := SpendByPartner(ps, registry)
	require.Len(t, spend, 2)
	assert.Equal(t, "nike", spend[0].PartnerID)
	assert.Equal(t, "ea", spend[1].PartnerID)
}

func TestSpendByPartner_UnknownPartnerIgnored(t *testing.T) {
	spend := SpendByPartner([]model.Payment{pay("ghost", "A", "10", "")}, registry)
	assert.Empty(t, spend)
}

func TestFilter(t *testing.T) {
	ps := sample()
	tests := []struct {
		name     string
		criteria Criteria
		players  []string
	}{
		{"no criteria", Criteria{}, []string{"Jordan Smith", "Alex Jordan", "Casey Lee", "Sam Park", "Jordan Smith"}},
		{"partner", Criteria{PartnerID: "nike"}, []string{"Jordan Smith", "Casey Lee", "Jordan Smith"}},
		{"player substring any case", Criteria{Player: "JORDAN"}, []string{"Jordan Smith", "Alex Jordan", "Jordan Smith"}},
		{"month name", Criteria{Month: "january"}, []string{"Jordan Smith", "Jordan Smith"}},
		{"month code", Criteria{Month: "Dec"}, []string{"Casey Lee"}},
		{"unknown month", Criteria{Month: "Unknown"}, []string{"Sam Park"}},
		{"fiscal year", Criteria{FiscalYear: "2024"}, []string{"Jordan Smith", "Alex Jordan", "Jordan Smith"}},
		{"display year", Criteria{FiscalYear: "FY2023"}, []string{"Casey Lee"}},
		{"combined", Criteria{PartnerID: "nike", Player: "smith", Month: "JAN", FiscalYear: "2024"}, []string{"Jordan Smith", "Jordan Smith"}},
		{"nothing", Criteria{PartnerID: "gatorade", Month: "Jan"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var players []string
			for _, p := range Filter(ps, tt.criteria) {
				players = append(players, p.PlayerName)
			}
			assert.Equal(t, tt.players, players)
		})
	}
}

func TestCriteria_IsZero(t *testing.T) {
	assert.True(t, Criteria{}.IsZero())
	assert.False(t, Criteria{Player: "x"}.IsZero())
}
