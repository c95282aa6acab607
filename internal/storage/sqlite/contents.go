package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/models"
)

// GetBillContents retrieves a bill's participants, items and shares.
func (s *SQLiteStore) GetBillContents(ctx context.Context, billID string) (*models.BillContents, error) {
	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	contents := &models.BillContents{Total: bill.TotalAmount}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, name FROM participants WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	participants, err := scanParticipants(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		contents.Participants = append(contents.Participants, *p)
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM line_items WHERE bill_id = ? ORDER BY sort_order",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		contents.Items = append(contents.Items, *item)
	}

	shares, err := s.ListSharesByBills(ctx, []string{billID})
	if err != nil {
		return nil, err
	}
	contents.Shares = shares

	return contents, nil
}

// ReplaceBillContents swaps out everything attached to a bill.
func (s *SQLiteStore) ReplaceBillContents(ctx context.Context, billID string, contents *models.BillContents) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE bills SET total_amount = ? WHERE id = ?", contents.Total.String(), billID)
	if err != nil {
		return fmt.Errorf("failed to update bill total: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	} else if n == 0 {
		return apperr.NotFound("bill not found: %s", billID)
	}

	if err := deleteContents(ctx, tx, billID); err != nil {
		return err
	}
	if err := insertContents(ctx, tx, billID, contents); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func deleteContents(ctx context.Context, tx *sql.Tx, billID string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM shares WHERE item_id IN (SELECT id FROM line_items WHERE bill_id = ?)",
		billID,
	); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM line_items WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	return nil
}

func insertContents(ctx context.Context, tx *sql.Tx, billID string, contents *models.BillContents) error {
	for _, p := range contents.Participants {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO participants (id, bill_id, name) VALUES (?, ?, ?)",
			p.ID, billID, p.Name,
		); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, item := range contents.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO line_items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			item.ID, billID, item.Name, item.UnitPrice.String(), item.DiscountRatio.String(),
			item.DiscountAdjustment.String(), item.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	for _, share := range contents.Shares {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO shares (item_id, participant_id, share_amount) VALUES (?, ?, ?)",
			share.ItemID, share.ParticipantID, share.Amount.String(),
		); err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

const itemColumns = "id, bill_id, name, unit_price, discount_ratio, discount_adjustment, sort_order"

func scanItems(rows *sql.Rows) ([]*models.LineItem, error) {
	defer rows.Close()

	var items []*models.LineItem
	for rows.Next() {
		item := &models.LineItem{}
		if err := rows.Scan(&item.ID, &item.BillID, &item.Name, &item.UnitPrice,
			&item.DiscountRatio, &item.DiscountAdjustment, &item.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func scanParticipants(rows *sql.Rows) ([]*models.Participant, error) {
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.ID, &p.BillID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

func scanShares(rows *sql.Rows) ([]models.ShareRecord, error) {
	defer rows.Close()

	var shares []models.ShareRecord
	for rows.Next() {
		var share models.ShareRecord
		if err := rows.Scan(&share.ItemID, &share.ParticipantID, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// GetItemsByIDs retrieves line items by ID. Missing items are omitted.
func (s *SQLiteStore) GetItemsByIDs(ctx context.Context, ids []string) (map[string]*models.LineItem, error) {
	out := make(map[string]*models.LineItem)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM line_items WHERE id IN ("+placeholders(len(ids))+")",
		idArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by IDs: %w", err)
	}
	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

// GetParticipantsByIDs retrieves participants by ID. Missing participants are omitted.
func (s *SQLiteStore) GetParticipantsByIDs(ctx context.Context, ids []string) (map[string]*models.Participant, error) {
	out := make(map[string]*models.Participant)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, name FROM participants WHERE id IN ("+placeholders(len(ids))+")",
		idArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants by IDs: %w", err)
	}
	participants, err := scanParticipants(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		out[p.ID] = p
	}
	return out, nil
}

// ListShares returns all share records.
func (s *SQLiteStore) ListShares(ctx context.Context) ([]models.ShareRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT item_id, participant_id, share_amount FROM shares")
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return scanShares(rows)
}

// ListSharesByBills returns the share records of the given bills.
func (s *SQLiteStore) ListSharesByBills(ctx context.Context, billIDs []string) ([]models.ShareRecord, error) {
	if len(billIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.item_id, s.participant_id, s.share_amount
		 FROM shares s JOIN line_items i ON i.id = s.item_id
		 WHERE i.bill_id IN (`+placeholders(len(billIDs))+`)
		 ORDER BY i.sort_order`,
		idArgs(billIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by bills: %w", err)
	}
	return scanShares(rows)
}
