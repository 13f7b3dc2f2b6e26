package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "backoffice.v1.SettlementService"

// SettlementService procedure names.
const (
	SettlementServiceGetBalancesProcedure          = "/backoffice.v1.SettlementService/GetBalances"
	SettlementServiceCalculateSettlementsProcedure = "/backoffice.v1.SettlementService/CalculateSettlements"
	SettlementServiceCreateSettlementsProcedure    = "/backoffice.v1.SettlementService/CreateSettlements"
	SettlementServiceGetSettlementProcedure        = "/backoffice.v1.SettlementService/GetSettlement"
	SettlementServiceListSettlementsProcedure      = "/backoffice.v1.SettlementService/ListSettlements"
	SettlementServiceMarkPaidProcedure             = "/backoffice.v1.SettlementService/MarkPaid"
	SettlementServiceMarkPartiallyPaidProcedure    = "/backoffice.v1.SettlementService/MarkPartiallyPaid"
	SettlementServiceAmendPaymentProcedure         = "/backoffice.v1.SettlementService/AmendPayment"
	SettlementServiceDeleteSettlementProcedure     = "/backoffice.v1.SettlementService/DeleteSettlement"
	SettlementServiceGetSummaryProcedure           = "/backoffice.v1.SettlementService/GetSummary"
)

// SettlementServiceHandler is implemented by the server.
type SettlementServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	CalculateSettlements(context.Context, *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error)
	CreateSettlements(context.Context, *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	MarkPaid(context.Context, *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error)
	MarkPartiallyPaid(context.Context, *connect.Request[api.MarkPartiallyPaidRequest]) (*connect.Response[api.MarkPartiallyPaidResponse], error)
	AmendPayment(context.Context, *connect.Request[api.AmendPaymentRequest]) (*connect.Response[api.AmendPaymentResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + SettlementServiceName + "/", route(map[string]http.Handler{
		SettlementServiceGetBalancesProcedure:          unary(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts),
		SettlementServiceCalculateSettlementsProcedure: unary(SettlementServiceCalculateSettlementsProcedure, svc.CalculateSettlements, opts),
		SettlementServiceCreateSettlementsProcedure:    unary(SettlementServiceCreateSettlementsProcedure, svc.CreateSettlements, opts),
		SettlementServiceGetSettlementProcedure:        unary(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts),
		SettlementServiceListSettlementsProcedure:      unary(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts),
		SettlementServiceMarkPaidProcedure:             unary(SettlementServiceMarkPaidProcedure, svc.MarkPaid, opts),
		SettlementServiceMarkPartiallyPaidProcedure:    unary(SettlementServiceMarkPartiallyPaidProcedure, svc.MarkPartiallyPaid, opts),
		SettlementServiceAmendPaymentProcedure:         unary(SettlementServiceAmendPaymentProcedure, svc.AmendPayment, opts),
		SettlementServiceDeleteSettlementProcedure:     unary(SettlementServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts),
		SettlementServiceGetSummaryProcedure:           unary(SettlementServiceGetSummaryProcedure, svc.GetSummary, opts),
	})
}

// SettlementServiceClient is a client for the SettlementService service.
type SettlementServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	CalculateSettlements(context.Context, *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error)
	CreateSettlements(context.Context, *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	MarkPaid(context.Context, *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error)
	MarkPartiallyPaid(context.Context, *connect.Request[api.MarkPartiallyPaidRequest]) (*connect.Response[api.MarkPartiallyPaidResponse], error)
	AmendPayment(context.Context, *connect.Request[api.AmendPaymentRequest]) (*connect.Response[api.AmendPaymentResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewSettlementServiceClient constructs a client for the SettlementService service.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	return &settlementServiceClient{
		getBalances:          client[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL, SettlementServiceGetBalancesProcedure, opts),
		calculateSettlements: client[api.CalculateSettlementsRequest, api.CalculateSettlementsResponse](httpClient, baseURL, SettlementServiceCalculateSettlementsProcedure, opts),
		createSettlements:    client[api.CreateSettlementsRequest, api.CreateSettlementsResponse](httpClient, baseURL, SettlementServiceCreateSettlementsProcedure, opts),
		getSettlement:        client[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL, SettlementServiceGetSettlementProcedure, opts),
		listSettlements:      client[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL, SettlementServiceListSettlementsProcedure, opts),
		markPaid:             client[api.MarkPaidRequest, api.MarkPaidResponse](httpClient, baseURL, SettlementServiceMarkPaidProcedure, opts),
		markPartiallyPaid:    client[api.MarkPartiallyPaidRequest, api.MarkPartiallyPaidResponse](httpClient, baseURL, SettlementServiceMarkPartiallyPaidProcedure, opts),
		amendPayment:         client[api.AmendPaymentRequest, api.AmendPaymentResponse](httpClient, baseURL, SettlementServiceAmendPaymentProcedure, opts),
		deleteSettlement:     client[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL, SettlementServiceDeleteSettlementProcedure, opts),
		getSummary:           client[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL, SettlementServiceGetSummaryProcedure, opts),
	}
}

type settlementServiceClient struct {
	getBalances          *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	calculateSettlements *connect.Client[api.CalculateSettlementsRequest, api.CalculateSettlementsResponse]
	createSettlements    *connect.Client[api.CreateSettlementsRequest, api.CreateSettlementsResponse]
	getSettlement        *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	listSettlements      *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	markPaid             *connect.Client[api.MarkPaidRequest, api.MarkPaidResponse]
	markPartiallyPaid    *connect.Client[api.MarkPartiallyPaidRequest, api.MarkPartiallyPaidResponse]
	amendPayment         *connect.Client[api.AmendPaymentRequest, api.AmendPaymentResponse]
	deleteSettlement     *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
	getSummary           *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CalculateSettlements(ctx context.Context, req *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error) {
	return c.calculateSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CreateSettlements(ctx context.Context, req *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error) {
	return c.createSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) MarkPaid(ctx context.Context, req *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error) {
	return c.markPaid.CallUnary(ctx, req)
}

func (c *settlementServiceClient) MarkPartiallyPaid(ctx context.Context, req *connect.Request[api.MarkPartiallyPaidRequest]) (*connect.Response[api.MarkPartiallyPaidResponse], error) {
	return c.markPartiallyPaid.CallUnary(ctx, req)
}

func (c *settlementServiceClient) AmendPayment(ctx context.Context, req *connect.Request[api.AmendPaymentRequest]) (*connect.Response[api.AmendPaymentResponse], error) {
	return c.amendPayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
