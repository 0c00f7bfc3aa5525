package payments

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerpay/partnerpay/internal/model"
)

func TestMarshalPayment(t *testing.T) {
	p := model.Payment{
		ID:                "pay-1",
		PartnerID:         "nike",
		PlayerName:        "Jordan Smith",
		Amount:            decimal.RequireFromString("1250.5"),
		TotalPlayerAmount: decimal.RequireFromString("5000"),
		InvoiceCode:       "2024-017-MAR",
		DealType:          "Appearance",
		DealID:            "D-9",
	}
	row := MarshalPayment(p, "Nike")
	require.Len(t, row, numFields)
	assert.Equal(t, "pay-1", row[colID])
	assert.Equal(t, "Nike", row[colPartnerName])
	assert.Equal(t, "1250.50", row[colAmount])
	assert.Equal(t, "5000.00", row[colTotalPlayer])
	assert.Equal(t, "2024", row[colFiscalYear])
	assert.Equal(t, "March", row[colMonth])
	assert.Equal(t, "Appearance", row[colDealType])
	assert.Equal(t, "", row[colDealDetail])
	assert.Equal(t, "D-9", row[colDealID])
}

func TestMarshalPayment_UnknownPeriodAndZeroTotal(t *testing.T) {
	row := MarshalPayment(payment("ea", "P", "3"), "EA Sports")
	assert.Equal(t, "", row[colTotalPlayer])
	assert.Equal(t, "", row[colFiscalYear])
	assert.Equal(t, "Unknown", row[colMonth])
}

func TestWritePayments(t *testing.T) {
	var buf bytes.Buffer
	err := WritePayments(&buf, []model.Payment{
		payment("nike", "A", "1"),
		payment("ea", "B, Jr.", "2"),
	}, known)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, strings.Split(Header, ","), records[0])
	assert.Equal(t, "Nike", records[1][colPartnerName])
	assert.Equal(t, "B, Jr.", records[2][colPlayer])
}

func TestWritePayments_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, nil, known))
	assert.Equal(t, Header+"\n", buf.String())
}
