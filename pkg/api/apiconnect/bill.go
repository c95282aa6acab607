package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const BillServiceName = "splitledger.v1.BillService"

const (
	BillServiceCreateBillProcedure    = "/" + BillServiceName + "/CreateBill"
	BillServiceGetBillProcedure       = "/" + BillServiceName + "/GetBill"
	BillServiceListBillsProcedure     = "/" + BillServiceName + "/ListBills"
	BillServiceUpdateBillProcedure    = "/" + BillServiceName + "/UpdateBill"
	BillServiceSaveBillItemsProcedure = "/" + BillServiceName + "/SaveBillItems"
	BillServiceDeleteBillProcedure    = "/" + BillServiceName + "/DeleteBill"
	BillServiceImportBillsProcedure   = "/" + BillServiceName + "/ImportBills"
)

type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	SaveBillItems(context.Context, *connect.Request[api.SaveBillItemsRequest]) (*connect.Response[api.SaveBillItemsResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	ImportBills(context.Context, *connect.Request[api.ImportBillsRequest]) (*connect.Response[api.ImportBillsResponse], error)
}

// NewBillServiceHandler returns the mount path and handler of svc.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BillServiceName + "/", route(map[string]http.Handler{
		BillServiceCreateBillProcedure:    connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...),
		BillServiceGetBillProcedure:       connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...),
		BillServiceListBillsProcedure:     connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...),
		BillServiceUpdateBillProcedure:    connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...),
		BillServiceSaveBillItemsProcedure: connect.NewUnaryHandler(BillServiceSaveBillItemsProcedure, svc.SaveBillItems, opts...),
		BillServiceDeleteBillProcedure:    connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...),
		BillServiceImportBillsProcedure:   connect.NewUnaryHandler(BillServiceImportBillsProcedure, svc.ImportBills, opts...),
	})
}

type BillServiceClient struct {
	createBill    *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill       *connect.Client[api.GetBillRequest, api.GetBillResponse]
	listBills     *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	updateBill    *connect.Client[api.UpdateBillRequest, api.UpdateBillResponse]
	saveBillItems *connect.Client[api.SaveBillItemsRequest, api.SaveBillItemsResponse]
	deleteBill    *connect.Client[api.DeleteBillRequest, api.DeleteBillResponse]
	importBills   *connect.Client[api.ImportBillsRequest, api.ImportBillsResponse]
}

func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &BillServiceClient{
		createBill:    connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:       connect.NewClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills:     connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		updateBill:    connect.NewClient[api.UpdateBillRequest, api.UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		saveBillItems: connect.NewClient[api.SaveBillItemsRequest, api.SaveBillItemsResponse](httpClient, baseURL+BillServiceSaveBillItemsProcedure, opts...),
		deleteBill:    connect.NewClient[api.DeleteBillRequest, api.DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		importBills:   connect.NewClient[api.ImportBillsRequest, api.ImportBillsResponse](httpClient, baseURL+BillServiceImportBillsProcedure, opts...),
	}
}

func (c *BillServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *BillServiceClient) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) SaveBillItems(ctx context.Context, req *connect.Request[api.SaveBillItemsRequest]) (*connect.Response[api.SaveBillItemsResponse], error) {
	return c.saveBillItems.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ImportBills(ctx context.Context, req *connect.Request[api.ImportBillsRequest]) (*connect.Response[api.ImportBillsResponse], error) {
	return c.importBills.CallUnary(ctx, req)
}
