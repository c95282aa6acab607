package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of Bill.Date.
const DateLayout = "2006-01-02"

// Bill represents one invoice. Its participants, items and shares are stored
// separately and replaced as a unit whenever the bill's items are saved.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	Title       string
	Date        time.Time
	Description string

	// Checked is a free-form "settled/reviewed" flag toggled by the owner.
	Checked bool

	// OwnerID is the user who created the bill. Only the owner may mutate it.
	OwnerID string

	// TotalAmount is the sum of the adjusted prices of all items.
	// It is derived and cached; see calculator.Totalize.
	TotalAmount decimal.Decimal

	// Payer is the optional display name of whoever paid the bill.
	Payer string

	// ImageRef is an opaque reference to a receipt image.
	ImageRef string

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}

// Participant is one person on one bill.
type Participant struct {
	ID     string
	BillID string
	// Name is unique within a bill and is the cross-bill identity of a person.
	Name string
}

// LineItem is a single priced line on a bill.
type LineItem struct {
	ID     string
	BillID string
	Name   string

	UnitPrice decimal.Decimal

	// DiscountRatio is applied multiplicatively. 1 means no discount.
	DiscountRatio decimal.Decimal

	// DiscountAdjustment is added after the ratio. It may be negative.
	DiscountAdjustment decimal.Decimal

	// SortOrder defines display and iteration order within the bill.
	SortOrder int
}

// Price returns the item's adjusted price:
// UnitPrice × DiscountRatio + DiscountAdjustment.
func (i LineItem) Price() decimal.Decimal {
	return i.UnitPrice.Mul(i.DiscountRatio).Add(i.DiscountAdjustment)
}

// ShareRecord is the amount one participant owes for one line item.
type ShareRecord struct {
	ItemID        string
	ParticipantID string
	Amount        decimal.Decimal
}

// BillContents is everything that is regenerated when a bill's items are saved.
type BillContents struct {
	Participants []Participant
	Items        []LineItem
	Shares       []ShareRecord
	Total        decimal.Decimal
}
