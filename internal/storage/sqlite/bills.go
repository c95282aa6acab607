package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/models"
)

const billColumns = "id, title, bill_date, description, checked, owner_id, total_amount, payer, image_ref, created_at"

func scanBill(row scanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var date string
	if err := row.Scan(&bill.ID, &bill.Title, &date, &bill.Description, &bill.Checked,
		&bill.OwnerID, &bill.TotalAmount, &bill.Payer, &bill.ImageRef, &bill.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("bill %s has malformed date %q: %w", bill.ID, date, err)
	}
	bill.Date = parsed
	return bill, nil
}

// CreateBill persists a new bill and its contents to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill, contents *models.BillContents) error {
	// Generate ID if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Date.IsZero() {
		bill.Date = time.Unix(bill.CreatedAt, 0).UTC()
	}
	if contents != nil {
		bill.TotalAmount = contents.Total
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.Title, bill.Date.Format(models.DateLayout), bill.Description, boolInt(bill.Checked),
		bill.OwnerID, bill.TotalAmount.String(), bill.Payer, bill.ImageRef, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if contents != nil {
		if err := insertContents(ctx, tx, bill.ID, contents); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+billColumns+" FROM bills WHERE id = ?", billID)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("bill not found: %s", billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// GetBillsByIDs retrieves multiple bills by their IDs.
// Bills that don't exist are omitted from the result.
func (s *SQLiteStore) GetBillsByIDs(ctx context.Context, ids []string) (map[string]*models.Bill, error) {
	bills := make(map[string]*models.Bill)
	if len(ids) == 0 {
		return bills, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id IN ("+placeholders(len(ids))+")",
		idArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills[bill.ID] = bill
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// ListBills lists bills, newest first. An empty ownerID lists all bills.
func (s *SQLiteStore) ListBills(ctx context.Context, ownerID string) ([]*models.Bill, error) {
	query := "SELECT " + billColumns + " FROM bills"
	var args []any
	if ownerID != "" {
		query += " WHERE owner_id = ?"
		args = append(args, ownerID)
	}
	query += " ORDER BY bill_date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// UpdateBill updates the bill's own fields. Owner, total and creation time
// are left unchanged.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bills SET title = ?, bill_date = ?, description = ?, checked = ?, payer = ?, image_ref = ?
		 WHERE id = ?`,
		bill.Title, bill.Date.Format(models.DateLayout), bill.Description, boolInt(bill.Checked),
		bill.Payer, bill.ImageRef, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("bill not found: %s", bill.ID)
	}
	return nil
}

// DeleteBill removes a bill and everything attached to it.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteContents(ctx, tx, billID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("bill not found: %s", billID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
