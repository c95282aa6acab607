package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

var one = decimal.NewFromInt(1)

// parseDate accepts YYYY-MM-DD. An empty string is today (UTC).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Validation("date %q must be YYYY-MM-DD", s)
	}
	return date, nil
}

func itemDrafts(in []api.ItemInput) []models.ItemDraft {
	out := make([]models.ItemDraft, len(in))
	for i, item := range in {
		ratio := one
		if item.DiscountRatio != nil {
			ratio = *item.DiscountRatio
		}
		adj := decimal.Zero
		if item.DiscountAdjustment != nil {
			adj = *item.DiscountAdjustment
		}
		out[i] = models.ItemDraft{
			Name:               item.Name,
			UnitPrice:          item.UnitPrice,
			DiscountRatio:      ratio,
			DiscountAdjustment: adj,
			Participants:       item.Participants,
		}
	}
	return out
}

func billToAPI(b *models.Bill) api.Bill {
	return api.Bill{
		ID:          b.ID,
		Title:       b.Title,
		Date:        b.Date.Format(models.DateLayout),
		Description: b.Description,
		Checked:     b.Checked,
		OwnerID:     b.OwnerID,
		TotalAmount: b.TotalAmount,
		Payer:       b.Payer,
		ImageRef:    b.ImageRef,
		CreatedAt:   b.CreatedAt,
	}
}

func billsToAPI(bills []*models.Bill) []api.Bill {
	out := make([]api.Bill, len(bills))
	for i, b := range bills {
		out[i] = billToAPI(b)
	}
	return out
}

// billDetail lays out a bill's items with their shares and the per
// participant totals, in participant entry order.
func billDetail(b *models.Bill, c *models.BillContents) api.BillDetail {
	names := make(map[string]string, len(c.Participants))
	detail := api.BillDetail{
		Bill:         billToAPI(b),
		Participants: make([]api.Participant, len(c.Participants)),
		Items:        make([]api.Item, len(c.Items)),
		Totals:       make([]api.ParticipantTotal, len(c.Participants)),
	}
	for i, p := range c.Participants {
		names[p.ID] = p.Name
		detail.Participants[i] = api.Participant{ID: p.ID, Name: p.Name}
	}

	sharesByItem := make(map[string][]models.ShareRecord)
	perParticipant := make(map[string]decimal.Decimal)
	for _, s := range c.Shares {
		sharesByItem[s.ItemID] = append(sharesByItem[s.ItemID], s)
		perParticipant[s.ParticipantID] = perParticipant[s.ParticipantID].Add(s.Amount)
	}

	for i, item := range c.Items {
		out := api.Item{
			ID:                 item.ID,
			Name:               item.Name,
			UnitPrice:          item.UnitPrice,
			DiscountRatio:      item.DiscountRatio,
			DiscountAdjustment: item.DiscountAdjustment,
			Price:              item.Price(),
			Shares:             []api.Share{},
		}
		for _, s := range sharesByItem[item.ID] {
			out.Shares = append(out.Shares, api.Share{
				ParticipantID: s.ParticipantID,
				Name:          names[s.ParticipantID],
				Amount:        s.Amount,
			})
		}
		detail.Items[i] = out
	}

	for i, p := range c.Participants {
		detail.Totals[i] = api.ParticipantTotal{Name: p.Name, Amount: perParticipant[p.ID]}
	}
	return detail
}

func personSummary(p calculator.PersonTotal, paid decimal.Decimal) api.PersonSummary {
	return balanceSummary(calculator.Reconcile(p.Name, p.Total, paid), len(p.ByBill()))
}

func balanceSummary(b calculator.Balance, bills int) api.PersonSummary {
	return api.PersonSummary{
		Name:      b.Name,
		Total:     b.Total,
		Paid:      b.Paid,
		Remaining: b.Remaining,
		PaidRatio: b.PaidRatio,
		FullyPaid: b.FullyPaid,
		Bills:     bills,
	}
}

func historyToAPI(groups []calculator.BillGroup) []api.HistoryBill {
	out := make([]api.HistoryBill, len(groups))
	for i, g := range groups {
		h := api.HistoryBill{
			BillID:    g.BillID,
			BillTitle: g.BillTitle,
			BillDate:  g.BillDate.Format(models.DateLayout),
			Subtotal:  g.Subtotal,
			Details:   make([]api.HistoryDetail, len(g.Details)),
		}
		for j, d := range g.Details {
			h.Details[j] = api.HistoryDetail{ItemID: d.ItemID, ItemName: d.ItemName, Amount: d.Amount}
		}
		out[i] = h
	}
	return out
}

func paymentToAPI(p *models.PaymentRecord) api.Payment {
	return api.Payment{
		Name:       p.Name,
		PaidAmount: p.PaidAmount,
		UpdatedAt:  p.UpdatedAt,
		UpdatedBy:  p.UpdatedBy,
	}
}
