package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// ListPayments returns every payment record ordered by name.
func (s *SQLiteStore) ListPayments(ctx context.Context) ([]*models.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, paid_amount, updated_at, updated_by FROM payments ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.PaymentRecord
	for rows.Next() {
		p := &models.PaymentRecord{}
		if err := rows.Scan(&p.Name, &p.PaidAmount, &p.UpdatedAt, &p.UpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// UpsertPayment creates or replaces the payment record for p.Name.
func (s *SQLiteStore) UpsertPayment(ctx context.Context, p *models.PaymentRecord) error {
	if p.UpdatedAt == 0 {
		p.UpdatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (name, paid_amount, updated_at, updated_by) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		     paid_amount = excluded.paid_amount,
		     updated_at = excluded.updated_at,
		     updated_by = excluded.updated_by`,
		p.Name, p.PaidAmount.String(), p.UpdatedAt, p.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert payment: %w", err)
	}
	return nil
}
