package api

import "github.com/shopspring/decimal"

type Payment struct {
	Name       string          `json:"name"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	UpdatedAt  int64           `json:"updated_at"`
	UpdatedBy  string          `json:"updated_by,omitempty"`
}

type ListPaymentsRequest struct{}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

// SetPaidAmountRequest commits Amount for Name. Amount is the raw text the
// user typed.
type SetPaidAmountRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type SetPaidAmountResponse struct {
	Person PersonSummary `json:"person"`
}

type FillPaidToTotalRequest struct {
	Name string `json:"name"`
}

type FillPaidToTotalResponse struct {
	Person PersonSummary `json:"person"`
}

// StagePaidAmountRequest buffers a value without writing it.
type StagePaidAmountRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type StagePaidAmountResponse struct {
	Staged decimal.Decimal `json:"staged"`
}

type CommitPaidAmountRequest struct {
	Name string `json:"name"`
}

type CommitPaidAmountResponse struct {
	// Committed is false when nothing was staged for Name.
	Committed  bool            `json:"committed"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}
