package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// LedgerOptions tunes how the cross-bill ledger is fetched.
type LedgerOptions struct {
	ChunkSize int
	Timeout   time.Duration
	Locale    language.Tag
}

// DefaultLedgerOptions matches the configuration defaults.
func DefaultLedgerOptions() LedgerOptions {
	return LedgerOptions{
		ChunkSize: storage.DefaultChunkSize,
		Timeout:   15 * time.Second,
		Locale:    language.English,
	}
}

// Ledger is one computed snapshot of what everybody owes and has paid.
type Ledger struct {
	Aggregation *calculator.Aggregation
	Paid        map[string]decimal.Decimal
	locale      language.Tag
}

// People returns every person in display order.
func (l *Ledger) People() []calculator.PersonTotal {
	return l.Aggregation.Summary(l.locale)
}

// LedgerLoader fetches share records and everything they reference, then
// aggregates them per person.
type LedgerLoader struct {
	store storage.Store
	opts  LedgerOptions
}

func NewLedgerLoader(store storage.Store, opts LedgerOptions) *LedgerLoader {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = storage.DefaultChunkSize
	}
	return &LedgerLoader{store: store, opts: opts}
}

// Load computes the ledger over billIDs, or over every bill when billIDs is
// empty. Any failed lookup fails the whole load; share records whose
// references do not resolve are skipped and counted.
func (l *LedgerLoader) Load(ctx context.Context, billIDs []string) (*Ledger, error) {
	start := time.Now()
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	ledger, err := l.load(ctx, billIDs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperr.Timeout("ledger load", err)
		}
		return nil, err
	}
	metrics.LedgerBuilds.Observe(time.Since(start).Seconds())
	return ledger, nil
}

func (l *LedgerLoader) load(ctx context.Context, billIDs []string) (*Ledger, error) {
	shares, err := l.listShares(ctx, billIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	itemIDs := make([]string, 0, len(shares))
	participantIDs := make([]string, 0, len(shares))
	for _, s := range shares {
		itemIDs = append(itemIDs, s.ItemID)
		participantIDs = append(participantIDs, s.ParticipantID)
	}

	var (
		items        map[string]*models.LineItem
		participants map[string]*models.Participant
		payments     []*models.PaymentRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = storage.FetchByIDs(gctx, itemIDs, l.opts.ChunkSize, l.store.GetItemsByIDs)
		if err != nil {
			return fmt.Errorf("failed to fetch items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		participants, err = storage.FetchByIDs(gctx, participantIDs, l.opts.ChunkSize, l.store.GetParticipantsByIDs)
		if err != nil {
			return fmt.Errorf("failed to fetch participants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		payments, err = l.store.ListPayments(gctx)
		if err != nil {
			return fmt.Errorf("failed to list payments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	itemBillIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemBillIDs = append(itemBillIDs, item.BillID)
	}
	bills, err := storage.FetchByIDs(ctx, itemBillIDs, l.opts.ChunkSize, l.store.GetBillsByIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bills: %w", err)
	}

	idx := calculator.Index{
		Items:        make(map[string]calculator.ItemRef, len(items)),
		Bills:        make(map[string]calculator.BillRef, len(bills)),
		Participants: make(map[string]calculator.ParticipantRef, len(participants)),
	}
	for id, item := range items {
		idx.Items[id] = calculator.ItemRef{ID: item.ID, BillID: item.BillID, Name: item.Name}
	}
	for id, b := range bills {
		idx.Bills[id] = calculator.BillRef{ID: b.ID, Title: b.Title, Date: b.Date}
	}
	for id, p := range participants {
		idx.Participants[id] = calculator.ParticipantRef{ID: p.ID, BillID: p.BillID, Name: p.Name}
	}

	entries := make([]calculator.ShareEntry, len(shares))
	for i, s := range shares {
		entries[i] = calculator.ShareEntry{ItemID: s.ItemID, ParticipantID: s.ParticipantID, Amount: s.Amount}
	}
	agg := calculator.Aggregate(entries, idx)
	if n := len(agg.Gaps); n > 0 {
		metrics.SkippedShares.Add(float64(n))
		slog.Warn("Skipped unresolved share records", "count", n, "first", agg.Gaps[0])
		for _, gap := range agg.Gaps {
			slog.Debug("Unresolved share record", "error", gap)
		}
	}

	paid := make(map[string]decimal.Decimal, len(payments))
	for _, p := range payments {
		paid[p.Name] = p.PaidAmount
	}
	return &Ledger{Aggregation: agg, Paid: paid, locale: l.opts.Locale}, nil
}

// listShares returns every share when billIDs is empty, otherwise the shares
// of those bills, looked up at most ChunkSize bill IDs per query.
func (l *LedgerLoader) listShares(ctx context.Context, billIDs []string) ([]models.ShareRecord, error) {
	if len(billIDs) == 0 {
		return l.store.ListShares(ctx)
	}
	var shares []models.ShareRecord
	for _, chunk := range storage.Chunk(storage.UniqueIDs(billIDs), l.opts.ChunkSize) {
		part, err := l.store.ListSharesByBills(ctx, chunk)
		if err != nil {
			return nil, err
		}
		shares = append(shares, part...)
	}
	return shares, nil
}
