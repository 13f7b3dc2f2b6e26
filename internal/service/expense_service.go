package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/calculator"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/middleware"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/storage"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store     storage.Store
	validator *RequestValidator
	logger    *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, validator *RequestValidator, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, validator: validator, logger: logger}
}

// knownParticipants returns a lookup over every registered user.
func (s *ExpenseService) knownParticipants(ctx context.Context) (func(string) bool, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(users))
	for _, u := range users {
		ids[u.ID] = true
	}
	return func(id string) bool { return ids[id] }, nil
}

// CreateExpense records a new expense after checking its split structure.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}
	msg := req.Msg

	amount, err := money.Parse(msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !msg.IsShared && len(msg.SplitParticipants) > 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.New("splitParticipants is only allowed on shared expenses"))
	}

	expense := &models.SharedExpense{
		Description:       msg.Description,
		Category:          models.ExpenseCategory(msg.Category),
		Amount:            amount,
		PaidBy:            msg.PaidBy,
		IsShared:          msg.IsShared,
		SplitCount:        msg.SplitCount,
		SplitParticipants: msg.SplitParticipants,
		Status:            models.ExpenseStatus(msg.Status),
		Date:              msg.Date,
	}
	if expense.PaidBy == "" {
		expense.PaidBy = middleware.GetUserID(ctx)
	}
	if expense.Status == "" {
		expense.Status = models.ExpensePending
	}
	if expense.SplitCount == 0 {
		expense.SplitCount = len(expense.SplitParticipants) + 1
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}

	known, err := s.knownParticipants(ctx)
	if err != nil {
		s.logger.Error("Failed to load participants", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if err := calculator.ValidateExpense(expense, known); err != nil {
		s.logger.Warn("Rejected expense", "paid_by", expense.PaidBy, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("Failed to save expense", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense recorded",
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"paid_by", expense.PaidBy,
		"split_count", expense.SplitCount,
	)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses returns expenses, optionally only those in one status.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		s.logger.Error("Failed to list expenses", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, 0, len(expenses))
	for _, e := range expenses {
		if req.Msg.Status != "" && string(e.Status) != req.Msg.Status {
			continue
		}
		out = append(out, expenseToAPI(e))
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpenseStatus approves, rejects or reimburses an expense. Only
// PENDING and APPROVED expenses count toward balances.
func (s *ExpenseService) UpdateExpenseStatus(ctx context.Context, req *connect.Request[api.UpdateExpenseStatusRequest]) (*connect.Response[api.UpdateExpenseStatusResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	status := models.ExpenseStatus(req.Msg.Status)
	if err := s.store.UpdateExpenseStatus(ctx, req.Msg.ID, status); err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense status changed", "expense_id", expense.ID, "status", status)
	return connect.NewResponse(&api.UpdateExpenseStatusResponse{Expense: expenseToAPI(expense)}), nil
}

// DeleteExpense removes an expense. PENDING settlements derived from it are
// replaced the next time settlements are created.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense deleted", "expense_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
