package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerService serves the cross-bill ledger. It is read-only and open to
// guests.
type LedgerService struct {
	loader *LedgerLoader
}

func NewLedgerService(loader *LedgerLoader) *LedgerService {
	return &LedgerService{loader: loader}
}

// GetLedger returns every person's total across bills with their payments
// overlaid, numbered names first.
func (s *LedgerService) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	l, err := s.loader.Load(ctx, req.Msg.BillIDs)
	if err != nil {
		return nil, toConnectError("GetLedger", err)
	}

	people := l.People()
	balances := calculator.ReconcileAll(people, l.Paid)
	resp := &api.GetLedgerResponse{
		People:  make([]api.PersonSummary, len(people)),
		Skipped: len(l.Aggregation.Gaps),
	}
	for i, p := range people {
		resp.People[i] = balanceSummary(balances[i], len(p.ByBill()))
	}
	return connect.NewResponse(resp), nil
}

// GetPersonHistory returns one person's shares grouped per bill, newest
// bill first.
func (s *LedgerService) GetPersonHistory(ctx context.Context, req *connect.Request[api.GetPersonHistoryRequest]) (*connect.Response[api.GetPersonHistoryResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError("GetPersonHistory", apperr.Validation("name is required"))
	}
	l, err := s.loader.Load(ctx, nil)
	if err != nil {
		return nil, toConnectError("GetPersonHistory", err)
	}
	person, ok := l.Aggregation.Person(name)
	if !ok {
		return nil, toConnectError("GetPersonHistory", apperr.NotFound("no shares for %q", name))
	}
	return connect.NewResponse(&api.GetPersonHistoryResponse{
		Person: personSummary(person, l.Paid[name]),
		Bills:  historyToAPI(person.ByBill()),
	}), nil
}
