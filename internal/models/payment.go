package models

import "github.com/shopspring/decimal"

// PaymentRecord holds the amount a person has paid towards everything they
// owe. It is keyed by display name, not by participant, and is independent of
// share calculation. A missing record means nothing has been paid.
type PaymentRecord struct {
	// Name is the participant display name this payment belongs to.
	Name string

	// PaidAmount is entered manually, at most two fractional digits.
	PaidAmount decimal.Decimal

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64

	// UpdatedBy is the user ID that recorded the last change.
	UpdatedBy string
}
