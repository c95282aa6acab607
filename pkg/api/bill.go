package api

import "github.com/shopspring/decimal"

// Bill is a bill's own fields. Date is YYYY-MM-DD.
type Bill struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	Checked     bool            `json:"checked"`
	OwnerID     string          `json:"owner_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Payer       string          `json:"payer,omitempty"`
	ImageRef    string          `json:"image_ref,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Share struct {
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
}

type Item struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountRatio      decimal.Decimal `json:"discount_ratio"`
	DiscountAdjustment decimal.Decimal `json:"discount_adjustment"`
	Price              decimal.Decimal `json:"price"`
	Shares             []Share         `json:"shares"`
}

// ParticipantTotal is what one participant owes on a single bill.
type ParticipantTotal struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type BillDetail struct {
	Bill         Bill               `json:"bill"`
	Participants []Participant      `json:"participants"`
	Items        []Item             `json:"items"`
	Totals       []ParticipantTotal `json:"totals"`
}

// ItemInput describes one line item. DiscountRatio defaults to 1 and
// DiscountAdjustment to 0 when omitted.
type ItemInput struct {
	Name               string           `json:"name"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	DiscountRatio      *decimal.Decimal `json:"discount_ratio,omitempty"`
	DiscountAdjustment *decimal.Decimal `json:"discount_adjustment,omitempty"`
	Participants       []string         `json:"participants"`
}

type CreateBillRequest struct {
	Title        string      `json:"title"`
	Date         string      `json:"date,omitempty"`
	Description  string      `json:"description,omitempty"`
	Payer        string      `json:"payer,omitempty"`
	ImageRef     string      `json:"image_ref,omitempty"`
	Participants []string    `json:"participants"`
	Items        []ItemInput `json:"items"`
}

type CreateBillResponse struct {
	Bill BillDetail `json:"bill"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill BillDetail `json:"bill"`
}

// ListBillsRequest lists every bill, or only the caller's when Mine is set.
type ListBillsRequest struct {
	Mine bool `json:"mine,omitempty"`
}

type ListBillsResponse struct {
	Bills []Bill `json:"bills"`
}

// UpdateBillRequest changes a bill's own fields. Nil fields are left as is.
type UpdateBillRequest struct {
	BillID      string  `json:"bill_id"`
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
	Checked     *bool   `json:"checked,omitempty"`
	Payer       *string `json:"payer,omitempty"`
	ImageRef    *string `json:"image_ref,omitempty"`
}

type UpdateBillResponse struct {
	Bill Bill `json:"bill"`
}

// SaveBillItemsRequest replaces the participants and items of a bill and
// regenerates its shares.
type SaveBillItemsRequest struct {
	BillID       string      `json:"bill_id"`
	Participants []string    `json:"participants"`
	Items        []ItemInput `json:"items"`
}

type SaveBillItemsResponse struct {
	Bill BillDetail `json:"bill"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteBillResponse struct{}

// ImportBillsRequest carries a bulk import document. Format is "json",
// "yaml" or empty to detect it from the content.
type ImportBillsRequest struct {
	Format   string `json:"format,omitempty"`
	Document string `json:"document"`
}

type ImportBillsResponse struct {
	Bills []Bill `json:"bills"`
}
