package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const PaymentServiceName = "splitledger.v1.PaymentService"

const (
	PaymentServiceListPaymentsProcedure     = "/" + PaymentServiceName + "/ListPayments"
	PaymentServiceSetPaidAmountProcedure    = "/" + PaymentServiceName + "/SetPaidAmount"
	PaymentServiceFillPaidToTotalProcedure  = "/" + PaymentServiceName + "/FillPaidToTotal"
	PaymentServiceStagePaidAmountProcedure  = "/" + PaymentServiceName + "/StagePaidAmount"
	PaymentServiceCommitPaidAmountProcedure = "/" + PaymentServiceName + "/CommitPaidAmount"
)

type PaymentServiceHandler interface {
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	SetPaidAmount(context.Context, *connect.Request[api.SetPaidAmountRequest]) (*connect.Response[api.SetPaidAmountResponse], error)
	FillPaidToTotal(context.Context, *connect.Request[api.FillPaidToTotalRequest]) (*connect.Response[api.FillPaidToTotalResponse], error)
	StagePaidAmount(context.Context, *connect.Request[api.StagePaidAmountRequest]) (*connect.Response[api.StagePaidAmountResponse], error)
	CommitPaidAmount(context.Context, *connect.Request[api.CommitPaidAmountRequest]) (*connect.Response[api.CommitPaidAmountResponse], error)
}

// NewPaymentServiceHandler returns the mount path and handler of svc.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + PaymentServiceName + "/", route(map[string]http.Handler{
		PaymentServiceListPaymentsProcedure:     connect.NewUnaryHandler(PaymentServiceListPaymentsProcedure, svc.ListPayments, opts...),
		PaymentServiceSetPaidAmountProcedure:    connect.NewUnaryHandler(PaymentServiceSetPaidAmountProcedure, svc.SetPaidAmount, opts...),
		PaymentServiceFillPaidToTotalProcedure:  connect.NewUnaryHandler(PaymentServiceFillPaidToTotalProcedure, svc.FillPaidToTotal, opts...),
		PaymentServiceStagePaidAmountProcedure:  connect.NewUnaryHandler(PaymentServiceStagePaidAmountProcedure, svc.StagePaidAmount, opts...),
		PaymentServiceCommitPaidAmountProcedure: connect.NewUnaryHandler(PaymentServiceCommitPaidAmountProcedure, svc.CommitPaidAmount, opts...),
	})
}

type PaymentServiceClient struct {
	listPayments     *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	setPaidAmount    *connect.Client[api.SetPaidAmountRequest, api.SetPaidAmountResponse]
	fillPaidToTotal  *connect.Client[api.FillPaidToTotalRequest, api.FillPaidToTotalResponse]
	stagePaidAmount  *connect.Client[api.StagePaidAmountRequest, api.StagePaidAmountResponse]
	commitPaidAmount *connect.Client[api.CommitPaidAmountRequest, api.CommitPaidAmountResponse]
}

func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &PaymentServiceClient{
		listPayments:     connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+PaymentServiceListPaymentsProcedure, opts...),
		setPaidAmount:    connect.NewClient[api.SetPaidAmountRequest, api.SetPaidAmountResponse](httpClient, baseURL+PaymentServiceSetPaidAmountProcedure, opts...),
		fillPaidToTotal:  connect.NewClient[api.FillPaidToTotalRequest, api.FillPaidToTotalResponse](httpClient, baseURL+PaymentServiceFillPaidToTotalProcedure, opts...),
		stagePaidAmount:  connect.NewClient[api.StagePaidAmountRequest, api.StagePaidAmountResponse](httpClient, baseURL+PaymentServiceStagePaidAmountProcedure, opts...),
		commitPaidAmount: connect.NewClient[api.CommitPaidAmountRequest, api.CommitPaidAmountResponse](httpClient, baseURL+PaymentServiceCommitPaidAmountProcedure, opts...),
	}
}

func (c *PaymentServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) SetPaidAmount(ctx context.Context, req *connect.Request[api.SetPaidAmountRequest]) (*connect.Response[api.SetPaidAmountResponse], error) {
	return c.setPaidAmount.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) FillPaidToTotal(ctx context.Context, req *connect.Request[api.FillPaidToTotalRequest]) (*connect.Response[api.FillPaidToTotalResponse], error) {
	return c.fillPaidToTotal.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) StagePaidAmount(ctx context.Context, req *connect.Request[api.StagePaidAmountRequest]) (*connect.Response[api.StagePaidAmountResponse], error) {
	return c.stagePaidAmount.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) CommitPaidAmount(ctx context.Context, req *connect.Request[api.CommitPaidAmountRequest]) (*connect.Response[api.CommitPaidAmountResponse], error) {
	return c.commitPaidAmount.CallUnary(ctx, req)
}
