// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the ledger's storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer. Lookups by ID set return maps and silently omit IDs that do
// not exist; callers decide whether a gap matters.
type Store interface {
	// CreateBill persists a new bill with its participants, items and shares
	// in one transaction. bill.ID and bill.CreatedAt are set if empty.
	CreateBill(ctx context.Context, bill *models.Bill, contents *models.BillContents) error

	// GetBill retrieves a bill by its ID. Returns an apperr NotFound error if
	// the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// GetBillsByIDs retrieves bills by ID.
	GetBillsByIDs(ctx context.Context, ids []string) (map[string]*models.Bill, error)

	// ListBills lists bills newest first. An empty ownerID lists every bill.
	ListBills(ctx context.Context, ownerID string) ([]*models.Bill, error)

	// UpdateBill updates a bill's own fields. Its total is not touched.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// GetBillContents returns a bill's participants, items in sort order and shares.
	GetBillContents(ctx context.Context, billID string) (*models.BillContents, error)

	// ReplaceBillContents deletes the bill's participants, items and shares
	// and inserts contents in their place, updating the cached total, in one
	// transaction.
	ReplaceBillContents(ctx context.Context, billID string, contents *models.BillContents) error

	// DeleteBill deletes a bill with its participants, items and shares.
	DeleteBill(ctx context.Context, billID string) error

	// GetItemsByIDs retrieves line items by ID.
	GetItemsByIDs(ctx context.Context, ids []string) (map[string]*models.LineItem, error)

	// GetParticipantsByIDs retrieves participants by ID.
	GetParticipantsByIDs(ctx context.Context, ids []string) (map[string]*models.Participant, error)

	// ListShares returns every share record.
	ListShares(ctx context.Context) ([]models.ShareRecord, error)

	// ListSharesByBills returns the share records of the given bills.
	ListSharesByBills(ctx context.Context, billIDs []string) ([]models.ShareRecord, error)

	// ListPayments returns every payment record.
	ListPayments(ctx context.Context) ([]*models.PaymentRecord, error)

	// UpsertPayment creates or replaces the payment record for p.Name.
	UpsertPayment(ctx context.Context, p *models.PaymentRecord) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
