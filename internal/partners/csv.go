package partners

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/partnerpay/partnerpay/internal/model"
)

// Header is the CSV header for partner registry files.
const Header = "id,name,contract_total,is_flex_fund"

const (
	numFields     = 4
	colID         = 0
	colName       = 1
	colContract   = 2
	colIsFlexFund = 3
)

// ReadPartners reads a partner registry CSV. The id column may be blank for
// partners that have not been persisted yet.
func ReadPartners(r io.Reader) ([]model.Partner, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading partners CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var partners []model.Partner
	for i, rec := range records[1:] {
		p, err := UnmarshalPartner(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		partners = append(partners, p)
	}
	return partners, nil
}

// WritePartners writes a partner registry CSV including the header.
func WritePartners(w io.Writer, partners []model.Partner) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range partners {
		if err := cw.Write(MarshalPartner(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalPartner converts a Partner to a CSV row.
func MarshalPartner(p model.Partner) []string {
	row := make([]string, numFields)
	row[colID] = p.ID
	row[colName] = p.Name
	row[colContract] = p.ContractTotal.StringFixed(2)
	row[colIsFlexFund] = strconv.FormatBool(p.IsFlexFund)
	return row
}

// UnmarshalPartner converts a CSV row to a Partner.
func UnmarshalPartner(record []string) (model.Partner, error) {
	if len(record) != numFields {
		return model.Partner{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	name := strings.TrimSpace(record[colName])
	if name == "" {
		return model.Partner{}, fmt.Errorf("empty partner name")
	}

	contract := decimal.Zero
	if s := strings.TrimSpace(record[colContract]); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return model.Partner{}, fmt.Errorf("parsing contract_total %q: %w", s, err)
		}
		contract = d
	}

	var flex bool
	if s := strings.TrimSpace(record[colIsFlexFund]); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return model.Partner{}, fmt.Errorf("parsing is_flex_fund %q: %w", s, err)
		}
		flex = b
	}
	if flex {
		contract = decimal.Zero
	}

	return model.Partner{
		ID:            strings.TrimSpace(record[colID]),
		Name:          name,
		ContractTotal: contract,
		IsFlexFund:    flex,
	}, nil
}
