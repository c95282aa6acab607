package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
)

// BillWriter persists a new bill together with its generated records.
type BillWriter interface {
	CreateBill(ctx context.Context, bill *models.Bill, contents *models.BillContents) error
}

// Importer writes decoded drafts as bills owned by one user.
type Importer struct {
	writer BillWriter
}

// New creates an Importer writing through w.
func New(w BillWriter) *Importer {
	return &Importer{writer: w}
}

// Import builds every draft first and writes nothing if any of them is
// invalid. Bills are then written one by one; on a write error the bills
// already written are returned along with the error.
func (im *Importer) Import(ctx context.Context, ownerID string, drafts []models.BillDraft) ([]*models.Bill, error) {
	type prepared struct {
		bill     *models.Bill
		contents *models.BillContents
	}

	batch := make([]prepared, 0, len(drafts))
	for i := range drafts {
		draft := &drafts[i]
		bill := &models.Bill{
			ID:          uuid.New().String(),
			Title:       draft.Title,
			Date:        draft.Date,
			Description: draft.Description,
			OwnerID:     ownerID,
			Payer:       draft.Payer,
			ImageRef:    draft.ImageRef,
			CreatedAt:   time.Now().Unix(),
		}
		contents, err := ledger.Build(bill.ID, draft)
		if err != nil {
			return nil, fmt.Errorf("bill %d (%q): %w", i+1, draft.Title, err)
		}
		bill.TotalAmount = contents.Total
		batch = append(batch, prepared{bill: bill, contents: contents})
	}

	written := make([]*models.Bill, 0, len(batch))
	for _, p := range batch {
		if err := im.writer.CreateBill(ctx, p.bill, p.contents); err != nil {
			return written, fmt.Errorf("failed to write bill %q: %w", p.bill.Title, err)
		}
		slog.Info("Imported bill",
			"bill_id", p.bill.ID,
			"title", p.bill.Title,
			"items", len(p.contents.Items),
			"total", p.bill.TotalAmount.StringFixed(2),
		)
		metrics.ImportedBills.Inc()
		written = append(written, p.bill)
	}
	return written, nil
}
