package calculator

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/mmynk/splitledger/internal/apperr"
)

// ShareEntry is a persisted share as seen by the aggregator.
type ShareEntry struct {
	ItemID        string
	ParticipantID string
	Amount        decimal.Decimal
}

// ItemRef is the part of a line item the aggregator needs.
type ItemRef struct {
	ID     string
	BillID string
	Name   string
}

// BillRef is the part of a bill the aggregator needs.
type BillRef struct {
	ID    string
	Title string
	Date  time.Time
}

// ParticipantRef is the part of a participant the aggregator needs.
type ParticipantRef struct {
	ID     string
	BillID string
	Name   string
}

// Index resolves the IDs carried by share entries.
type Index struct {
	Items        map[string]ItemRef
	Bills        map[string]BillRef
	Participants map[string]ParticipantRef
}

// Detail is one share attributed to a person.
type Detail struct {
	BillID    string
	BillTitle string
	BillDate  time.Time
	ItemID    string
	ItemName  string
	Amount    decimal.Decimal
}

// PersonTotal is everything one person (display name) owes across bills.
type PersonTotal struct {
	Name    string
	Total   decimal.Decimal
	Details []Detail
}

// BillGroup is a person's details on one bill.
type BillGroup struct {
	BillID    string
	BillTitle string
	BillDate  time.Time
	Subtotal  decimal.Decimal
	Details   []Detail
}

// Aggregation holds per-name totals built from share entries.
// The zero value is not usable; call NewAggregation or Aggregate.
type Aggregation struct {
	people map[string]*PersonTotal

	// Gaps lists share entries that were skipped because a reference was
	// malformed or could not be resolved.
	Gaps []error
}

// NewAggregation returns an empty aggregation.
func NewAggregation() *Aggregation {
	return &Aggregation{people: make(map[string]*PersonTotal)}
}

// Aggregate groups shares by the display name of their participant.
//
// People are keyed by exact name, so one person appearing on several bills
// under separate participant IDs is summed into one total. Entries whose IDs
// are malformed, cannot be resolved through idx, or whose item and
// participant belong to different bills are skipped and recorded in Gaps.
func Aggregate(shares []ShareEntry, idx Index) *Aggregation {
	agg := NewAggregation()
	for _, s := range shares {
		detail, name, err := resolve(s, idx)
		if err != nil {
			agg.Gaps = append(agg.Gaps, err)
			continue
		}
		agg.add(name, detail)
	}
	return agg
}

func resolve(s ShareEntry, idx Index) (Detail, string, error) {
	if _, err := uuid.Parse(s.ItemID); err != nil {
		return Detail{}, "", apperr.ResolutionGap("malformed item id %q", s.ItemID)
	}
	if _, err := uuid.Parse(s.ParticipantID); err != nil {
		return Detail{}, "", apperr.ResolutionGap("malformed participant id %q", s.ParticipantID)
	}

	item, ok := idx.Items[s.ItemID]
	if !ok {
		return Detail{}, "", apperr.ResolutionGap("item %s not found", s.ItemID)
	}
	participant, ok := idx.Participants[s.ParticipantID]
	if !ok {
		return Detail{}, "", apperr.ResolutionGap("participant %s not found", s.ParticipantID)
	}
	bill, ok := idx.Bills[item.BillID]
	if !ok {
		return Detail{}, "", apperr.ResolutionGap("bill %s of item %s not found", item.BillID, s.ItemID)
	}
	if participant.BillID != item.BillID {
		return Detail{}, "", apperr.ResolutionGap("participant %s is not on bill %s", s.ParticipantID, item.BillID)
	}

	return Detail{
		BillID:    bill.ID,
		BillTitle: bill.Title,
		BillDate:  bill.Date,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Amount:    s.Amount,
	}, participant.Name, nil
}

func (a *Aggregation) add(name string, d Detail) {
	p, ok := a.people[name]
	if !ok {
		p = &PersonTotal{Name: name, Total: decimal.Zero}
		a.people[name] = p
	}
	p.Total = p.Total.Add(d.Amount)
	p.Details = append(p.Details, d)
}

// Merge folds other into a. Merging the aggregations of two disjoint sets of
// bills gives the same totals as aggregating both sets at once.
func (a *Aggregation) Merge(other *Aggregation) {
	if other == nil {
		return
	}
	for name, p := range other.people {
		for _, d := range p.Details {
			a.add(name, d)
		}
	}
	a.Gaps = append(a.Gaps, other.Gaps...)
}

// Len returns the number of distinct names.
func (a *Aggregation) Len() int {
	return len(a.people)
}

// Person returns the totals for one name.
func (a *Aggregation) Person(name string) (PersonTotal, bool) {
	p, ok := a.people[name]
	if !ok {
		return PersonTotal{}, false
	}
	return *p, true
}

// Summary returns every person sorted with NameOrder for the given locale.
func (a *Aggregation) Summary(locale language.Tag) []PersonTotal {
	out := make([]PersonTotal, 0, len(a.people))
	for _, p := range a.people {
		out = append(out, *p)
	}
	order := NewNameOrder(locale)
	sort.SliceStable(out, func(i, j int) bool {
		return order.Compare(out[i].Name, out[j].Name) < 0
	})
	return out
}

// ByBill regroups a person's details per bill, newest bill first. Ties on
// date are broken by title and then by bill ID. Details keep their order
// within a group.
func (p PersonTotal) ByBill() []BillGroup {
	groups := make(map[string]*BillGroup)
	var order []string
	for _, d := range p.Details {
		g, ok := groups[d.BillID]
		if !ok {
			g = &BillGroup{
				BillID:    d.BillID,
				BillTitle: d.BillTitle,
				BillDate:  d.BillDate,
				Subtotal:  decimal.Zero,
			}
			groups[d.BillID] = g
			order = append(order, d.BillID)
		}
		g.Subtotal = g.Subtotal.Add(d.Amount)
		g.Details = append(g.Details, d)
	}

	out := make([]BillGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BillDate.Equal(out[j].BillDate) {
			return out[i].BillDate.After(out[j].BillDate)
		}
		if out[i].BillTitle != out[j].BillTitle {
			return strings.Compare(out[i].BillTitle, out[j].BillTitle) < 0
		}
		return out[i].BillID < out[j].BillID
	})
	return out
}
