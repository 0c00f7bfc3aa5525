package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/partnerpay/partnerpay/internal/log"
	"github.com/partnerpay/partnerpay/internal/model"
)

const paymentColumns = "id, partner_id, player_name, amount, total_player_amount, invoice_code, " +
	"deal_type, deal_detail, batch_name, deal_id, created_at"

// CreatePayment inserts a single payment.
func (s *Store) CreatePayment(ctx context.Context, p model.Payment) (model.Payment, error) {
	out, err := s.AppendPayments(ctx, []model.Payment{p})
	if err != nil {
		return model.Payment{}, err
	}
	return out[0], nil
}

// AppendPayments inserts ps in one transaction. Either every payment is
// stored or none is.
func (s *Store) AppendPayments(ctx context.Context, ps []model.Payment) ([]model.Payment, error) {
	var out []model.Payment
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.insertPayments(ctx, tx, ps)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("payments appended", log.FieldOperation, log.OpAppend, log.FieldCount, len(out))
	return out, nil
}

// ReplacePayments deletes every payment and inserts ps in one transaction.
// On failure the previous payments are left untouched.
func (s *Store) ReplacePayments(ctx context.Context, ps []model.Payment) ([]model.Payment, error) {
	var out []model.Payment
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM payments`); err != nil {
			return fmt.Errorf("clear payments: %w", err)
		}
		var err error
		out, err = s.insertPayments(ctx, tx, ps)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("payments replaced", log.FieldOperation, log.OpReplace, log.FieldCount, len(out))
	return out, nil
}

func (s *Store) insertPayments(ctx context.Context, tx *sql.Tx, ps []model.Payment) ([]model.Payment, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare payment insert: %w", err)
	}
	defer stmt.Close()

	created := s.timestamp()
	createdAt, _ := parseTime(created)

	out := make([]model.Payment, 0, len(ps))
	for i, p := range ps {
		p.ID = uuid.NewString()
		_, err := stmt.ExecContext(ctx,
			p.ID, p.PartnerID, p.PlayerName, p.Amount.String(), p.TotalPlayerAmount.String(),
			p.InvoiceCode, p.DealType, p.DealDetail, p.BatchName, p.DealID, created)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, fmt.Errorf("insert payment %d (partner %q): %w", i+1, p.PartnerID, ErrUnknownPartner)
			}
			return nil, fmt.Errorf("insert payment %d: %w", i+1, err)
		}
		p.CreatedAt = createdAt
		out = append(out, p)
	}
	return out, nil
}

// ListPayments returns payments in insertion order, optionally for one partner.
func (s *Store) ListPayments(ctx context.Context, partnerID string) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	var args []any
	if partnerID != "" {
		query += ` WHERE partner_id = ?`
		args = append(args, partnerID)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

// DeletePayment removes one payment.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete payment %s: %w", id, ErrNotFound)
	}
	s.logger.Debug("payment deleted", log.FieldOperation, log.OpDelete, log.FieldPaymentID, id)
	return nil
}

// ClearPayments deletes every payment and returns how many were removed.
func (s *Store) ClearPayments(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM payments`)
	if err != nil {
		return 0, fmt.Errorf("clear payments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear payments: %w", err)
	}
	s.logger.Debug("payments cleared", log.FieldOperation, log.OpClear, log.FieldCount, n)
	return n, nil
}

func scanPayment(r rowScanner) (model.Payment, error) {
	var (
		p                   model.Payment
		amount, totalPlayer string
		created             string
	)
	err := r.Scan(&p.ID, &p.PartnerID, &p.PlayerName, &amount, &totalPlayer, &p.InvoiceCode,
		&p.DealType, &p.DealDetail, &p.BatchName, &p.DealID, &created)
	if err != nil {
		return model.Payment{}, err
	}
	if p.Amount, err = parseDecimal("amount", amount); err != nil {
		return model.Payment{}, err
	}
	if p.TotalPlayerAmount, err = parseDecimal("total_player_amount", totalPlayer); err != nil {
		return model.Payment{}, err
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return model.Payment{}, err
	}
	return p, nil
}
