package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const LedgerServiceName = "splitledger.v1.LedgerService"

const (
	LedgerServiceGetLedgerProcedure        = "/" + LedgerServiceName + "/GetLedger"
	LedgerServiceGetPersonHistoryProcedure = "/" + LedgerServiceName + "/GetPersonHistory"
)

type LedgerServiceHandler interface {
	GetLedger(context.Context, *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error)
	GetPersonHistory(context.Context, *connect.Request[api.GetPersonHistoryRequest]) (*connect.Response[api.GetPersonHistoryResponse], error)
}

// NewLedgerServiceHandler returns the mount path and handler of svc.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects)))
	return "/" + LedgerServiceName + "/", route(map[string]http.Handler{
		LedgerServiceGetLedgerProcedure:        connect.NewUnaryHandler(LedgerServiceGetLedgerProcedure, svc.GetLedger, opts...),
		LedgerServiceGetPersonHistoryProcedure: connect.NewUnaryHandler(LedgerServiceGetPersonHistoryProcedure, svc.GetPersonHistory, opts...),
	})
}

type LedgerServiceClient struct {
	getLedger        *connect.Client[api.GetLedgerRequest, api.GetLedgerResponse]
	getPersonHistory *connect.Client[api.GetPersonHistoryRequest, api.GetPersonHistoryResponse]
}

func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		getLedger:        connect.NewClient[api.GetLedgerRequest, api.GetLedgerResponse](httpClient, baseURL+LedgerServiceGetLedgerProcedure, opts...),
		getPersonHistory: connect.NewClient[api.GetPersonHistoryRequest, api.GetPersonHistoryResponse](httpClient, baseURL+LedgerServiceGetPersonHistoryProcedure, opts...),
	}
}

func (c *LedgerServiceClient) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	return c.getLedger.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetPersonHistory(ctx context.Context, req *connect.Request[api.GetPersonHistoryRequest]) (*connect.Response[api.GetPersonHistoryResponse], error) {
	return c.getPersonHistory.CallUnary(ctx, req)
}
