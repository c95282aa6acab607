package api

import "github.com/shopspring/decimal"

type GetLedgerRequest struct {
	// BillIDs restricts the ledger to these bills. Empty means all bills.
	BillIDs []string `json:"bill_ids,omitempty"`
}

// PersonSummary is one line of the cross-bill ledger.
type PersonSummary struct {
	Name      string          `json:"name"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
	PaidRatio decimal.Decimal `json:"paid_ratio"`
	FullyPaid bool            `json:"fully_paid"`
	Bills     int             `json:"bills"`
}

type GetLedgerResponse struct {
	People []PersonSummary `json:"people"`
	// Skipped counts share records left out because a reference did not
	// resolve.
	Skipped int `json:"skipped"`
}

type GetPersonHistoryRequest struct {
	Name string `json:"name"`
}

type HistoryDetail struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Amount   decimal.Decimal `json:"amount"`
}

type HistoryBill struct {
	BillID    string          `json:"bill_id"`
	BillTitle string          `json:"bill_title"`
	BillDate  string          `json:"bill_date"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Details   []HistoryDetail `json:"details"`
}

type GetPersonHistoryResponse struct {
	Person PersonSummary `json:"person"`
	Bills  []HistoryBill `json:"bills"`
}
