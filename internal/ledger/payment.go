package ledger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/apperr"
)

var paidAmountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParsePaidAmount validates a manually entered paid amount: a non-negative
// decimal with at most two fractional digits.
func ParsePaidAmount(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if !paidAmountPattern.MatchString(input) {
		return decimal.Zero, apperr.Validation("paid amount %q must be a non-negative number with at most 2 decimals", input)
	}
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, apperr.Validation("paid amount %q: %v", input, err)
	}
	return amount, nil
}

// CommitFunc persists the final paid amount for a name.
type CommitFunc func(ctx context.Context, name string, amount decimal.Decimal, userID string) error

type pendingDraft struct {
	amount decimal.Decimal
	userID string
	gen    uint64
	timer  *time.Timer
}

// PaidDrafts buffers paid-amount edits per name and persists only the last
// value, either after the name has been idle for the configured interval or
// when Commit is called. Intermediate values are never written.
type PaidDrafts struct {
	mu      sync.Mutex
	idle    time.Duration
	commit  CommitFunc
	gen     uint64
	pending map[string]*pendingDraft
	// writers serializes take+commit per name so an older value can never
	// land after a newer one.
	writers map[string]*sync.Mutex
}

// NewPaidDrafts creates a buffer that commits after idle. An idle of zero
// disables the timer; drafts are then only written by Commit and Flush.
func NewPaidDrafts(idle time.Duration, commit CommitFunc) *PaidDrafts {
	return &PaidDrafts{
		idle:    idle,
		commit:  commit,
		pending: make(map[string]*pendingDraft),
		writers: make(map[string]*sync.Mutex),
	}
}

// Stage validates input and replaces the pending value for name.
// Invalid input is rejected and leaves any pending value untouched.
func (p *PaidDrafts) Stage(name, input, userID string) (decimal.Decimal, error) {
	amount, err := ParsePaidAmount(input)
	if err != nil {
		return decimal.Zero, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.pending[name]; ok && old.timer != nil {
		old.timer.Stop()
	}
	p.gen++
	d := &pendingDraft{amount: amount, userID: userID, gen: p.gen}
	if p.idle > 0 {
		gen := d.gen
		d.timer = time.AfterFunc(p.idle, func() { p.expire(name, gen) })
	}
	p.pending[name] = d
	return amount, nil
}

// Pending returns the staged value for name, if any.
func (p *PaidDrafts) Pending(name string) (decimal.Decimal, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.pending[name]
	if !ok {
		return decimal.Zero, false
	}
	return d.amount, true
}

// Commit writes the staged value for name now. ok is false when nothing was
// staged.
func (p *PaidDrafts) Commit(ctx context.Context, name string) (amount decimal.Decimal, ok bool, err error) {
	w := p.writer(name)
	w.Lock()
	defer w.Unlock()

	d := p.take(name, 0)
	if d == nil {
		return decimal.Zero, false, nil
	}
	if err := p.commit(ctx, name, d.amount, d.userID); err != nil {
		return decimal.Zero, true, err
	}
	return d.amount, true, nil
}

// Discard drops the staged value for name without writing it.
func (p *PaidDrafts) Discard(name string) {
	p.take(name, 0)
}

// Flush commits every staged value. It returns the first error.
func (p *PaidDrafts) Flush(ctx context.Context) error {
	p.mu.Lock()
	names := make([]string, 0, len(p.pending))
	for name := range p.pending {
		names = append(names, name)
	}
	p.mu.Unlock()

	var firstErr error
	for _, name := range names {
		if _, _, err := p.Commit(ctx, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *PaidDrafts) expire(name string, gen uint64) {
	w := p.writer(name)
	w.Lock()
	defer w.Unlock()

	d := p.take(name, gen)
	if d == nil {
		return
	}
	if err := p.commit(context.Background(), name, d.amount, d.userID); err != nil {
		slog.Error("Failed to commit paid amount draft", "name", name, "error", err)
		return
	}
	slog.Debug("Committed idle paid amount draft", "name", name, "amount", d.amount.StringFixed(2))
}

func (p *PaidDrafts) writer(name string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.writers[name]
	if !ok {
		w = &sync.Mutex{}
		p.writers[name] = w
	}
	return w
}

// take removes and returns the draft for name. A non-zero gen only matches
// the draft staged with that generation.
func (p *PaidDrafts) take(name string, gen uint64) *pendingDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.pending[name]
	if !ok || (gen != 0 && d.gen != gen) {
		return nil
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	delete(p.pending, name)
	return d
}
