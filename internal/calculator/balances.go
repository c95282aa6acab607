package calculator

import "github.com/shopspring/decimal"

// paidTolerance absorbs accumulated rounding when deciding "fully paid".
var paidTolerance = decimal.New(1, -2)

// Balance overlays a manually entered paid amount on a person's total.
// It is for display only and never feeds back into shares.
type Balance struct {
	Name  string
	Total decimal.Decimal
	Paid  decimal.Decimal

	// Remaining is max(Total - Paid, 0).
	Remaining decimal.Decimal

	// PaidRatio is Paid / Total clamped to [0, 1], or 0 when Total is zero.
	PaidRatio decimal.Decimal

	// FullyPaid is Remaining ≤ 0.01 or PaidRatio ≥ 1.
	FullyPaid bool
}

// Reconcile computes the balance of one person.
func Reconcile(name string, total, paid decimal.Decimal) Balance {
	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	ratio := decimal.Zero
	if !total.IsZero() {
		ratio = clamp(paid.Div(total), decimal.Zero, decimal.NewFromInt(1))
	}

	return Balance{
		Name:      name,
		Total:     total,
		Paid:      paid,
		Remaining: remaining,
		PaidRatio: ratio,
		FullyPaid: remaining.LessThanOrEqual(paidTolerance) || ratio.GreaterThanOrEqual(decimal.NewFromInt(1)),
	}
}

// ReconcileAll returns one balance per person, in the order given. Names
// missing from paid have paid nothing.
func ReconcileAll(people []PersonTotal, paid map[string]decimal.Decimal) []Balance {
	out := make([]Balance, len(people))
	for i, p := range people {
		amount, ok := paid[p.Name]
		if !ok {
			amount = decimal.Zero
		}
		out[i] = Reconcile(p.Name, p.Total, amount)
	}
	return out
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
