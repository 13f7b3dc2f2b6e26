package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "backoffice.v1.ExpenseService"

// ExpenseService procedure names.
const (
	ExpenseServiceCreateExpenseProcedure       = "/backoffice.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure          = "/backoffice.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure        = "/backoffice.v1.ExpenseService/ListExpenses"
	ExpenseServiceUpdateExpenseStatusProcedure = "/backoffice.v1.ExpenseService/UpdateExpenseStatus"
	ExpenseServiceDeleteExpenseProcedure       = "/backoffice.v1.ExpenseService/DeleteExpense"
)

// ExpenseServiceHandler is implemented by the server.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	UpdateExpenseStatus(context.Context, *connect.Request[api.UpdateExpenseStatusRequest]) (*connect.Response[api.UpdateExpenseStatusResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + ExpenseServiceName + "/", route(map[string]http.Handler{
		ExpenseServiceCreateExpenseProcedure:       unary(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts),
		ExpenseServiceGetExpenseProcedure:          unary(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts),
		ExpenseServiceListExpensesProcedure:        unary(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts),
		ExpenseServiceUpdateExpenseStatusProcedure: unary(ExpenseServiceUpdateExpenseStatusProcedure, svc.UpdateExpenseStatus, opts),
		ExpenseServiceDeleteExpenseProcedure:       unary(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts),
	})
}

// ExpenseServiceClient is a client for the ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	UpdateExpenseStatus(context.Context, *connect.Request[api.UpdateExpenseStatusRequest]) (*connect.Response[api.UpdateExpenseStatusResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
}

// NewExpenseServiceClient constructs a client for the ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	return &expenseServiceClient{
		createExpense:       client[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL, ExpenseServiceCreateExpenseProcedure, opts),
		getExpense:          client[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL, ExpenseServiceGetExpenseProcedure, opts),
		listExpenses:        client[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL, ExpenseServiceListExpensesProcedure, opts),
		updateExpenseStatus: client[api.UpdateExpenseStatusRequest, api.UpdateExpenseStatusResponse](httpClient, baseURL, ExpenseServiceUpdateExpenseStatusProcedure, opts),
		deleteExpense:       client[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL, ExpenseServiceDeleteExpenseProcedure, opts),
	}
}

type expenseServiceClient struct {
	createExpense       *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense          *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses        *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	updateExpenseStatus *connect.Client[api.UpdateExpenseStatusRequest, api.UpdateExpenseStatusResponse]
	deleteExpense       *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpenseStatus(ctx context.Context, req *connect.Request[api.UpdateExpenseStatusRequest]) (*connect.Response[api.UpdateExpenseStatusResponse], error) {
	return c.updateExpenseStatus.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}
