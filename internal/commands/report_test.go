package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monthRow struct {
	FiscalYear  string `json:"fiscal_year"`
	MonthNumber int    `json:"month_number"`
	Label       string `json:"label"`
	Amount      string `json:"amount"`
}

func TestReport_Overview(t *testing.T) {
	dir := importedProject(t)

	var overview struct {
		Dashboard    string     `json:"dashboard"`
		TotalSpent   string     `json:"total_spent"`
		Guarantee    string     `json:"guarantee"`
		Remaining    string     `json:"remaining"`
		PaymentCount int        `json:"payment_count"`
		Monthly      []monthRow `json:"monthly"`
		ByPartner    []struct {
			PartnerName string `json:"partner_name"`
			Amount      string `json:"amount"`
		} `json:"by_partner"`
	}
	runJSON(t, &overview, "report", "overview", "--dir", dir)

	assert.Equal(t, "Test Dashboard", overview.Dashboard)
	assert.Equal(t, "1625.5", overview.TotalSpent)
	assert.Equal(t, "30439528.2", overview.Guarantee)
	assert.Equal(t, "30437902.7", overview.Remaining)
	assert.Equal(t, 3, overview.PaymentCount)
	require.Len(t, overview.Monthly, 2)
	assert.Equal(t, "Mar FY2024", overview.Monthly[0].Label)
	assert.Equal(t, "Apr FY2024", overview.Monthly[1].Label)
	require.Len(t, overview.ByPartner, 2)
	assert.Equal(t, "Nike", overview.ByPartner[0].PartnerName)
	assert.Equal(t, "1550.5", overview.ByPartner[0].Amount)
}

func TestReport_OverviewText(t *testing.T) {
	dir := importedProject(t)
	out, err := runPartnerpay(t, "report", "overview", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Test Dashboard")
	assert.Contains(t, out, "$30,439,528.20")
	assert.Contains(t, out, "Mar FY2024")
}

func TestReport_Monthly(t *testing.T) {
	dir := importedProject(t)
	var months []monthRow
	runJSON(t, &months, "report", "monthly", "--partner", "Nike", "--dir", dir)
	require.Len(t, months, 1)
	assert.Equal(t, "1550.5", months[0].Amount)
	assert.Equal(t, 3, months[0].MonthNumber)
}

func TestReport_Partners(t *testing.T) {
	dir := importedProject(t)
	var spend []struct {
		PartnerName string `json:"partner_name"`
	}
	runJSON(t, &spend, "report", "partners", "--dir", dir)
	require.Len(t, spend, 2)
	assert.Equal(t, "Nike", spend[0].PartnerName)
	assert.Equal(t, "EA Sports", spend[1].PartnerName)
}

type detailRow struct {
	Name        string     `json:"name"`
	TotalSpent  string     `json:"total_spent"`
	Remaining   *string    `json:"remaining"`
	PlayerDeals int        `json:"player_deals"`
	FiscalYears []string   `json:"fiscal_years"`
	Months      []string   `json:"months"`
	Monthly     []monthRow `json:"monthly"`
	Payments    []struct {
		PlayerName string `json:"player_name"`
	} `json:"payments"`
}

func TestReport_Partner(t *testing.T) {
	dir := importedProject(t)

	var d detailRow
	runJSON(t, &d, "report", "partner", "Nike", "--dir", dir)
	assert.Equal(t, "Nike", d.Name)
	assert.Equal(t, "1550.5", d.TotalSpent)
	require.NotNil(t, d.Remaining)
	assert.Equal(t, "4998449.5", *d.Remaining)
	assert.Equal(t, 2, d.PlayerDeals)
	assert.Equal(t, []string{"2024"}, d.FiscalYears)
	assert.Equal(t, []string{"March"}, d.Months)
	assert.Len(t, d.Payments, 2)
}

func TestReport_PartnerFlexFund(t *testing.T) {
	dir := importedProject(t)

	var d detailRow
	runJSON(t, &d, "report", "partner", "EA Sports", "--dir", dir)
	assert.Nil(t, d.Remaining)
	assert.Equal(t, "75", d.TotalSpent)
	assert.Equal(t, 1, d.PlayerDeals)
}

func TestReport_PartnerFiltered(t *testing.T) {
	dir := importedProject(t)

	var d detailRow
	runJSON(t, &d, "report", "partner", "Nike", "--player", "casey", "--dir", dir)
	assert.Equal(t, "300", d.TotalSpent)
	require.Len(t, d.Payments, 1)
	assert.Equal(t, "Casey Lee", d.Payments[0].PlayerName)
}

func TestReport_PartnerUnknown(t *testing.T) {
	dir := importedProject(t)
	_, err := runPartnerpay(t, "report", "partner", "Puma", "--dir", dir)
	assert.Error(t, err)
}
