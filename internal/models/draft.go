package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillDraft is user input describing a bill before records are generated.
// It is produced by the bill editor RPCs and by bulk import.
type BillDraft struct {
	Title       string
	Date        time.Time
	Description string
	Payer       string
	ImageRef    string

	// Participants are display names. They are trimmed before use.
	Participants []string

	Items []ItemDraft
}

// ItemDraft is one line of a BillDraft.
type ItemDraft struct {
	Name               string
	UnitPrice          decimal.Decimal
	DiscountRatio      decimal.Decimal
	DiscountAdjustment decimal.Decimal

	// Participants are display names drawn from BillDraft.Participants.
	Participants []string
}
