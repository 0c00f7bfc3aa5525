package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partnerpay/partnerpay/internal/log"
	"github.com/partnerpay/partnerpay/internal/model"
)

const partnerColumns = "id, name, contract_total, is_flex_fund, created_at"

// CreatePartner inserts p with a fresh ID, or keeps p.ID when set.
// Flex-fund partners are stored with a zero contract total.
func (s *Store) CreatePartner(ctx context.Context, p model.Partner) (model.Partner, error) {
	p, err := s.preparePartner(p)
	if err != nil {
		return model.Partner{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	created := s.timestamp()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO partners (`+partnerColumns+`) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.ContractTotal.String(), p.IsFlexFund, created)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Partner{}, fmt.Errorf("create partner %q: %w", p.Name, ErrDuplicatePartner)
		}
		return model.Partner{}, fmt.Errorf("create partner %q: %w", p.Name, err)
	}

	p.CreatedAt, _ = parseTime(created)
	s.logger.Debug("partner created", log.FieldPartnerID, p.ID)
	return p, nil
}

// UpdatePartner overwrites the name, contract total and flex flag of p.ID.
func (s *Store) UpdatePartner(ctx context.Context, p model.Partner) (model.Partner, error) {
	p, err := s.preparePartner(p)
	if err != nil {
		return model.Partner{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE partners SET name = ?, contract_total = ?, is_flex_fund = ? WHERE id = ?`,
		p.Name, p.ContractTotal.String(), p.IsFlexFund, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Partner{}, fmt.Errorf("update partner %q: %w", p.Name, ErrDuplicatePartner)
		}
		return model.Partner{}, fmt.Errorf("update partner %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Partner{}, fmt.Errorf("update partner %s: %w", p.ID, ErrNotFound)
	}
	return s.GetPartner(ctx, p.ID)
}

func (s *Store) preparePartner(p model.Partner) (model.Partner, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return model.Partner{}, errors.New("partner name is required")
	}
	if p.IsFlexFund {
		p.ContractTotal = decimal.Zero
	}
	if p.ContractTotal.IsNegative() {
		return model.Partner{}, fmt.Errorf("contract total %s is negative", p.ContractTotal)
	}
	return p, nil
}

// DeletePartner removes a partner that no payment references.
func (s *Store) DeletePartner(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var refs int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM payments WHERE partner_id = ?`, id).Scan(&refs); err != nil {
			return fmt.Errorf("count payments for partner %s: %w", id, err)
		}
		if refs > 0 {
			return fmt.Errorf("delete partner %s (%d payments): %w", id, refs, ErrPartnerInUse)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM partners WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete partner %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("delete partner %s: %w", id, ErrNotFound)
		}
		s.logger.Debug("partner deleted", log.FieldOperation, log.OpDelete, log.FieldPartnerID, id)
		return nil
	})
}

// GetPartner returns the partner with id.
func (s *Store) GetPartner(ctx context.Context, id string) (model.Partner, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = ?`, id)
	p, err := scanPartner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Partner{}, fmt.Errorf("partner %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Partner{}, fmt.Errorf("get partner %s: %w", id, err)
	}
	return p, nil
}

// ListPartners returns the registry in insertion order.
func (s *Store) ListPartners(ctx context.Context) ([]model.Partner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+partnerColumns+` FROM partners ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var out []model.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("list partners: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartner(r rowScanner) (model.Partner, error) {
	var (
		p        model.Partner
		contract string
		created  string
	)
	if err := r.Scan(&p.ID, &p.Name, &contract, &p.IsFlexFund, &created); err != nil {
		return model.Partner{}, err
	}
	var err error
	if p.ContractTotal, err = parseDecimal("contract_total", contract); err != nil {
		return model.Partner{}, err
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return model.Partner{}, err
	}
	return p, nil
}
