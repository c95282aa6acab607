package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/importer"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// BillService implements the Connect BillService. Anyone may read bills;
// authenticated callers create and import them; only a bill's owner edits
// or deletes it.
type BillService struct {
	store    storage.Store
	importer *importer.Importer
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{
		store:    store,
		importer: importer.New(store),
	}
}

func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	caller, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError("CreateBill", err)
	}

	draft := &models.BillDraft{
		Title:        req.Msg.Title,
		Date:         date,
		Description:  req.Msg.Description,
		Payer:        req.Msg.Payer,
		ImageRef:     req.Msg.ImageRef,
		Participants: req.Msg.Participants,
		Items:        itemDrafts(req.Msg.Items),
	}
	bill := &models.Bill{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(draft.Title),
		Date:        date,
		Description: draft.Description,
		OwnerID:     caller.UserID,
		Payer:       strings.TrimSpace(draft.Payer),
		ImageRef:    draft.ImageRef,
		CreatedAt:   time.Now().Unix(),
	}
	contents, err := ledger.Build(bill.ID, draft)
	if err != nil {
		return nil, toConnectError("CreateBill", err)
	}
	if err := s.store.CreateBill(ctx, bill, contents); err != nil {
		return nil, toConnectError("CreateBill", err)
	}

	slog.Info("Bill created",
		"bill_id", bill.ID,
		"owner_id", bill.OwnerID,
		"items", len(contents.Items),
		"total", bill.TotalAmount.StringFixed(2),
	)
	return connect.NewResponse(&api.CreateBillResponse{Bill: billDetail(bill, contents)}), nil
}

func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	detail, err := s.loadDetail(ctx, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError("GetBill", err)
	}
	return connect.NewResponse(&api.GetBillResponse{Bill: *detail}), nil
}

func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	var ownerID string
	if req.Msg.Mine {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		ownerID = caller.UserID
	}
	bills, err := s.store.ListBills(ctx, ownerID)
	if err != nil {
		return nil, toConnectError("ListBills", err)
	}
	return connect.NewResponse(&api.ListBillsResponse{Bills: billsToAPI(bills)}), nil
}

// UpdateBill changes a bill's own fields. Participants, items and the total
// are only changed through SaveBillItems.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError("UpdateBill", err)
	}
	if _, err := requireOwner(ctx, bill); err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.Title != nil {
		if strings.TrimSpace(*msg.Title) == "" {
			return nil, toConnectError("UpdateBill", apperr.Validation("title is required"))
		}
		bill.Title = strings.TrimSpace(*msg.Title)
	}
	if msg.Date != nil {
		date, err := parseDate(*msg.Date)
		if err != nil {
			return nil, toConnectError("UpdateBill", err)
		}
		bill.Date = date
	}
	if msg.Description != nil {
		bill.Description = *msg.Description
	}
	if msg.Checked != nil {
		bill.Checked = *msg.Checked
	}
	if msg.ImageRef != nil {
		bill.ImageRef = *msg.ImageRef
	}
	if msg.Payer != nil {
		payer := strings.TrimSpace(*msg.Payer)
		if payer != "" {
			contents, err := s.store.GetBillContents(ctx, bill.ID)
			if err != nil {
				return nil, toConnectError("UpdateBill", err)
			}
			if !hasParticipant(contents, payer) {
				return nil, toConnectError("UpdateBill", apperr.Validation("payer %q must be one of the participants", payer))
			}
		}
		bill.Payer = payer
	}

	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, toConnectError("UpdateBill", err)
	}
	slog.Info("Bill updated", "bill_id", bill.ID)
	return connect.NewResponse(&api.UpdateBillResponse{Bill: billToAPI(bill)}), nil
}

// SaveBillItems replaces a bill's participants and items and regenerates
// every share. Saving the same input twice yields the same shares.
func (s *BillService) SaveBillItems(ctx context.Context, req *connect.Request[api.SaveBillItemsRequest]) (*connect.Response[api.SaveBillItemsResponse], error) {
	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError("SaveBillItems", err)
	}
	if _, err := requireOwner(ctx, bill); err != nil {
		return nil, err
	}

	draft := &models.BillDraft{
		Title:        bill.Title,
		Payer:        bill.Payer,
		Participants: req.Msg.Participants,
		Items:        itemDrafts(req.Msg.Items),
	}
	contents, err := ledger.Build(bill.ID, draft)
	if err != nil {
		return nil, toConnectError("SaveBillItems", err)
	}
	if err := s.store.ReplaceBillContents(ctx, bill.ID, contents); err != nil {
		return nil, toConnectError("SaveBillItems", err)
	}
	bill.TotalAmount = contents.Total

	slog.Info("Bill items saved",
		"bill_id", bill.ID,
		"participants", len(contents.Participants),
		"items", len(contents.Items),
		"shares", len(contents.Shares),
		"total", contents.Total.StringFixed(2),
	)
	return connect.NewResponse(&api.SaveBillItemsResponse{Bill: billDetail(bill, contents)}), nil
}

func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError("DeleteBill", err)
	}
	if _, err := requireOwner(ctx, bill); err != nil {
		return nil, err
	}
	if err := s.store.DeleteBill(ctx, bill.ID); err != nil {
		return nil, toConnectError("DeleteBill", err)
	}
	slog.Info("Bill deleted", "bill_id", bill.ID)
	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// ImportBills creates every bill of a JSON or YAML document, owned by the
// caller. Nothing is written when any bill in the document is invalid.
func (s *BillService) ImportBills(ctx context.Context, req *connect.Request[api.ImportBillsRequest]) (*connect.Response[api.ImportBillsResponse], error) {
	caller, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	format, err := importer.ParseFormat(req.Msg.Format)
	if err != nil {
		return nil, toConnectError("ImportBills", err)
	}
	drafts, err := importer.Decode([]byte(req.Msg.Document), format)
	if err != nil {
		return nil, toConnectError("ImportBills", err)
	}
	bills, err := s.importer.Import(ctx, caller.UserID, drafts)
	if err != nil {
		return nil, toConnectError("ImportBills", err)
	}
	return connect.NewResponse(&api.ImportBillsResponse{Bills: billsToAPI(bills)}), nil
}

func (s *BillService) loadDetail(ctx context.Context, billID string) (*api.BillDetail, error) {
	if billID == "" {
		return nil, apperr.Validation("bill_id is required")
	}
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	contents, err := s.store.GetBillContents(ctx, billID)
	if err != nil {
		return nil, err
	}
	detail := billDetail(bill, contents)
	return &detail, nil
}

func hasParticipant(c *models.BillContents, name string) bool {
	for _, p := range c.Participants {
		if p.Name == name {
			return true
		}
	}
	return false
}
