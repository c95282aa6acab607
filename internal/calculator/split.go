// Package calculator turns line items into per-participant shares and rolls
// those shares up per bill and across bills.
//
// Everything here is pure: callers fetch records, convert them to the small
// types of this package and persist whatever comes back.
package calculator

import (
	"github.com/shopspring/decimal"
)

// Item is a line item with the participant IDs it is assigned to.
type Item struct {
	ID                 string
	UnitPrice          decimal.Decimal
	DiscountRatio      decimal.Decimal
	DiscountAdjustment decimal.Decimal
	ParticipantIDs     []string
}

// Share is the amount one participant owes for one item.
type Share struct {
	ItemID        string
	ParticipantID string
	Amount        decimal.Decimal
}

// BillTotals is the result of totalizing one bill.
type BillTotals struct {
	// Total is the sum of every item's adjusted price, assigned or not.
	Total decimal.Decimal

	// PerParticipant maps participant ID to the sum of that participant's shares.
	PerParticipant map[string]decimal.Decimal

	// Shares holds one entry per (item, participant) pair, in item order.
	Shares []Share
}

// ItemPrice returns unitPrice × discountRatio + discountAdjustment.
func ItemPrice(unitPrice, discountRatio, discountAdjustment decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(discountRatio).Add(discountAdjustment)
}

// ShareAmount returns what each of shareCount participants owes for one item:
// (unitPrice × discountRatio + discountAdjustment) / shareCount.
// It returns zero when shareCount is zero. A negative result is valid and is
// returned as is.
func ShareAmount(unitPrice decimal.Decimal, shareCount int, discountRatio, discountAdjustment decimal.Decimal) decimal.Decimal {
	if shareCount <= 0 {
		return decimal.Zero
	}
	price := ItemPrice(unitPrice, discountRatio, discountAdjustment)
	return price.Div(decimal.NewFromInt(int64(shareCount)))
}

// Totalize computes the bill total, per-participant totals and the share set
// for a bill's items. Duplicate participant IDs on one item count once.
func Totalize(items []Item) BillTotals {
	totals := BillTotals{
		Total:          decimal.Zero,
		PerParticipant: make(map[string]decimal.Decimal),
	}

	for _, item := range items {
		totals.Total = totals.Total.Add(ItemPrice(item.UnitPrice, item.DiscountRatio, item.DiscountAdjustment))

		assigned := uniqueIDs(item.ParticipantIDs)
		if len(assigned) == 0 {
			continue
		}

		amount := ShareAmount(item.UnitPrice, len(assigned), item.DiscountRatio, item.DiscountAdjustment)
		for _, pid := range assigned {
			totals.Shares = append(totals.Shares, Share{
				ItemID:        item.ID,
				ParticipantID: pid,
				Amount:        amount,
			})
			totals.PerParticipant[pid] = totals.PerParticipant[pid].Add(amount)
		}
	}

	return totals
}

func uniqueIDs(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
