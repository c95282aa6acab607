// Package ledger turns user input into ledger records: it validates bill
// drafts and generates participants, items and shares for them, and it
// validates and buffers manually entered paid amounts.
package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// ValidateDraft checks the parts of a draft that do not depend on items.
func ValidateDraft(draft *models.BillDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return apperr.Validation("title is required")
	}
	names, err := participantNames(draft.Participants)
	if err != nil {
		return err
	}
	if payer := strings.TrimSpace(draft.Payer); payer != "" && !contains(names, payer) {
		return apperr.Validation("payer %q must be one of the participants", payer)
	}
	return nil
}

// Build generates the records of billID from draft.
//
// Participant names are trimmed and must be unique. Items with an empty name
// or a unit price of zero or less are dropped before anything is calculated.
// Every call generates fresh participant and item IDs; the result is meant to
// replace whatever the bill held before.
func Build(billID string, draft *models.BillDraft) (*models.BillContents, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	names, _ := participantNames(draft.Participants)

	contents := &models.BillContents{}
	idByName := make(map[string]string, len(names))
	for _, name := range names {
		p := models.Participant{ID: uuid.New().String(), BillID: billID, Name: name}
		idByName[name] = p.ID
		contents.Participants = append(contents.Participants, p)
	}

	var calcItems []calculator.Item
	for _, in := range draft.Items {
		name := strings.TrimSpace(in.Name)
		if name == "" || !in.UnitPrice.IsPositive() {
			continue
		}
		if in.DiscountRatio.IsNegative() {
			return nil, apperr.Validation("item %q: discount ratio must not be negative", name)
		}

		item := models.LineItem{
			ID:                 uuid.New().String(),
			BillID:             billID,
			Name:               name,
			UnitPrice:          in.UnitPrice,
			DiscountRatio:      in.DiscountRatio,
			DiscountAdjustment: in.DiscountAdjustment,
			SortOrder:          len(contents.Items),
		}

		var assigned []string
		for _, pn := range in.Participants {
			pn = strings.TrimSpace(pn)
			pid, ok := idByName[pn]
			if !ok {
				return nil, apperr.Validation("item %q: %q is not a participant of this bill", name, pn)
			}
			assigned = append(assigned, pid)
		}

		contents.Items = append(contents.Items, item)
		calcItems = append(calcItems, calculator.Item{
			ID:                 item.ID,
			UnitPrice:          item.UnitPrice,
			DiscountRatio:      item.DiscountRatio,
			DiscountAdjustment: item.DiscountAdjustment,
			ParticipantIDs:     assigned,
		})
	}
	if len(contents.Items) == 0 {
		return nil, apperr.Validation("at least one item with a name and a positive price is required")
	}

	totals := calculator.Totalize(calcItems)
	contents.Total = totals.Total
	for _, s := range totals.Shares {
		contents.Shares = append(contents.Shares, models.ShareRecord{
			ItemID:        s.ItemID,
			ParticipantID: s.ParticipantID,
			Amount:        s.Amount,
		})
	}
	return contents, nil
}

func participantNames(raw []string) ([]string, error) {
	var names []string
	seen := make(map[string]bool, len(raw))
	for _, n := range raw {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if seen[n] {
			return nil, apperr.Validation("participant %q is listed twice", n)
		}
		seen[n] = true
		names = append(names, n)
	}
	if len(names) == 0 {
		return nil, apperr.Validation("at least one participant is required")
	}
	return names, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
