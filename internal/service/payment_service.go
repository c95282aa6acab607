package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// PaymentService records what each person has paid. Guests may list
// payments; every write needs an authenticated caller. Paid amounts are a
// display overlay and never change any share.
type PaymentService struct {
	store  storage.Store
	loader *LedgerLoader
	drafts *ledger.PaidDrafts
}

// NewPaymentService creates the service. Staged amounts are committed after
// draftIdle without further edits.
func NewPaymentService(store storage.Store, loader *LedgerLoader, draftIdle time.Duration) *PaymentService {
	s := &PaymentService{store: store, loader: loader}
	s.drafts = ledger.NewPaidDrafts(draftIdle, func(ctx context.Context, name string, amount decimal.Decimal, userID string) error {
		return s.persist(ctx, name, amount, userID, "draft")
	})
	return s
}

// Flush commits every staged amount. Call it before shutting down.
func (s *PaymentService) Flush(ctx context.Context) error {
	return s.drafts.Flush(ctx)
}

func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, toConnectError("ListPayments", err)
	}
	resp := &api.ListPaymentsResponse{Payments: make([]api.Payment, len(payments))}
	for i, p := range payments {
		resp.Payments[i] = paymentToAPI(p)
	}
	return connect.NewResponse(resp), nil
}

// SetPaidAmount commits a typed amount right away. Any staged value for the
// same name is dropped.
func (s *PaymentService) SetPaidAmount(ctx context.Context, req *connect.Request[api.SetPaidAmountRequest]) (*connect.Response[api.SetPaidAmountResponse], error) {
	caller, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err := paymentName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError("SetPaidAmount", err)
	}
	amount, err := ledger.ParsePaidAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("SetPaidAmount", err)
	}

	s.drafts.Discard(name)
	if err := s.persist(ctx, name, amount, caller.UserID, "set"); err != nil {
		return nil, toConnectError("SetPaidAmount", err)
	}
	person, err := s.summary(ctx, name)
	if err != nil {
		return nil, toConnectError("SetPaidAmount", err)
	}
	return connect.NewResponse(&api.SetPaidAmountResponse{Person: person}), nil
}

// FillPaidToTotal marks a person as having paid their current total.
func (s *PaymentService) FillPaidToTotal(ctx context.Context, req *connect.Request[api.FillPaidToTotalRequest]) (*connect.Response[api.FillPaidToTotalResponse], error) {
	caller, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err := paymentName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError("FillPaidToTotal", err)
	}
	l, err := s.loader.Load(ctx, nil)
	if err != nil {
		return nil, toConnectError("FillPaidToTotal", err)
	}
	person, ok := l.Aggregation.Person(name)
	if !ok {
		return nil, toConnectError("FillPaidToTotal", apperr.NotFound("no shares for %q", name))
	}

	amount := person.Total.Round(2)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	s.drafts.Discard(name)
	if err := s.persist(ctx, name, amount, caller.UserID, "fill"); err != nil {
		return nil, toConnectError("FillPaidToTotal", err)
	}
	return connect.NewResponse(&api.FillPaidToTotalResponse{Person: personSummary(person, amount)}), nil
}

// StagePaidAmount buffers a value while the user is still typing. Only the
// last staged value is written, when the name goes idle or on
// CommitPaidAmount.
func (s *PaymentService) StagePaidAmount(ctx context.Context, req *connect.Request[api.StagePaidAmountRequest]) (*connect.Response[api.StagePaidAmountResponse], error) {
	caller, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err := paymentName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError("StagePaidAmount", err)
	}
	amount, err := s.drafts.Stage(name, req.Msg.Amount, caller.UserID)
	if err != nil {
		return nil, toConnectError("StagePaidAmount", err)
	}
	return connect.NewResponse(&api.StagePaidAmountResponse{Staged: amount}), nil
}

func (s *PaymentService) CommitPaidAmount(ctx context.Context, req *connect.Request[api.CommitPaidAmountRequest]) (*connect.Response[api.CommitPaidAmountResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	name, err := paymentName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError("CommitPaidAmount", err)
	}
	amount, ok, err := s.drafts.Commit(ctx, name)
	if err != nil {
		return nil, toConnectError("CommitPaidAmount", err)
	}
	return connect.NewResponse(&api.CommitPaidAmountResponse{Committed: ok, PaidAmount: amount}), nil
}

func (s *PaymentService) persist(ctx context.Context, name string, amount decimal.Decimal, userID, source string) error {
	err := s.store.UpsertPayment(ctx, &models.PaymentRecord{
		Name:       name,
		PaidAmount: amount,
		UpdatedAt:  time.Now().Unix(),
		UpdatedBy:  userID,
	})
	if err != nil {
		return err
	}
	metrics.CommittedPayments.WithLabelValues(source).Inc()
	slog.Info("Paid amount committed", "name", name, "amount", amount.StringFixed(2), "user_id", userID, "source", source)
	return nil
}

// summary reconciles name against the current ledger. A name without any
// share has a total of zero.
func (s *PaymentService) summary(ctx context.Context, name string) (api.PersonSummary, error) {
	l, err := s.loader.Load(ctx, nil)
	if err != nil {
		return api.PersonSummary{}, err
	}
	person, ok := l.Aggregation.Person(name)
	if !ok {
		person = calculator.PersonTotal{Name: name, Total: decimal.Zero}
	}
	return personSummary(person, l.Paid[name]), nil
}

func paymentName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperr.Validation("name is required")
	}
	return name, nil
}
