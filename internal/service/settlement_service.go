package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/calculator"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/metrics"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/storage"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api/apiconnect"
)

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService implements the Connect SettlementService.
//
// Writes are serialized by mu so that a proposal or payment is always
// computed from the latest committed ledger in this process; the store's
// version checks catch writers in other processes.
type SettlementService struct {
	store     storage.Store
	validator *RequestValidator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	dueAfter  time.Duration
	now       func() time.Time

	mu sync.Mutex
}

// NewSettlementService creates a SettlementService. New settlements fall due
// dueAfter after they are created. m may be nil.
func NewSettlementService(store storage.Store, validator *RequestValidator, m *metrics.Metrics, logger *slog.Logger, dueAfter time.Duration) *SettlementService {
	return &SettlementService{
		store:     store,
		validator: validator,
		metrics:   m,
		logger:    logger,
		dueAfter:  dueAfter,
		now:       time.Now,
	}
}

// ledger is the input to the settlement engine.
type ledger struct {
	participants []models.Participant
	expenses     []models.SharedExpense
	settlements  []models.Settlement
	expenseIDs   []string // expenses that count toward balances
}

func (s *SettlementService) loadLedger(ctx context.Context) (*ledger, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, storage.SettlementFilter{})
	if err != nil {
		return nil, err
	}

	l := &ledger{
		participants: make([]models.Participant, 0, len(users)),
		expenses:     make([]models.SharedExpense, 0, len(expenses)),
		settlements:  make([]models.Settlement, 0, len(settlements)),
	}
	for _, u := range users {
		l.participants = append(l.participants, u.Participant())
	}
	for _, e := range expenses {
		l.expenses = append(l.expenses, *e)
		if e.Status.CountsTowardBalances() {
			l.expenseIDs = append(l.expenseIDs, e.ID)
		}
	}
	for _, st := range settlements {
		l.settlements = append(l.settlements, *st)
	}
	return l, nil
}

func (s *SettlementService) balances(ctx context.Context) (*ledger, map[string]money.Money, error) {
	l, err := s.loadLedger(ctx)
	if err != nil {
		return nil, nil, err
	}
	balances, err := calculator.ComputeBalances(l.participants, l.expenses, l.settlements)
	if err != nil {
		return nil, nil, err
	}
	return l, balances, nil
}

// proposeTransfers nets the balances and warns if the transfers fail to
// clear them.
func (s *SettlementService) proposeTransfers(balances map[string]money.Money) []calculator.Transfer {
	transfers := calculator.ComputeTransfers(balances)
	for id, b := range calculator.ApplyTransfers(balances, transfers) {
		if !b.EffectivelyZero() {
			s.logger.Warn("Transfers leave balance unsettled", "participant", id, "remaining", b.String())
		}
	}
	return transfers
}

// GetBalances returns every participant's net balance.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	l, balances, err := s.balances(ctx)
	if err != nil {
		s.logger.Error("Failed to compute balances", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetBalancesResponse{Balances: balancesToAPI(l.participants, balances)}), nil
}

// CalculateSettlements previews balances and the transfers that clear them.
func (s *SettlementService) CalculateSettlements(ctx context.Context, req *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error) {
	l, balances, err := s.balances(ctx)
	if err != nil {
		s.logger.Error("Failed to compute balances", "error", err)
		return nil, toConnectError(err)
	}
	transfers := s.proposeTransfers(balances)

	s.logger.Debug("Calculated settlements", "participants", len(l.participants), "transfers", len(transfers))
	return connect.NewResponse(&api.CalculateSettlementsResponse{
		Balances:  balancesToAPI(l.participants, balances),
		Transfers: transfersToAPI(transfers),
	}), nil
}

// CreateSettlements persists the current transfer proposal as PENDING
// settlements. Repeating the call without ledger changes is a no-op.
func (s *SettlementService) CreateSettlements(ctx context.Context, req *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, balances, err := s.balances(ctx)
	if err != nil {
		s.logger.Error("Failed to compute balances", "error", err)
		return nil, toConnectError(err)
	}

	now := s.now()
	proposals := calculator.CreateSettlementsFromTransfers(s.proposeTransfers(balances), l.expenseIDs, now, s.dueAfter)

	result, err := s.store.ReconcilePending(ctx, proposals)
	if err != nil {
		s.logger.Error("Failed to save settlements", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObserveReconcile(result.Created, result.Updated, result.Deleted, len(proposals))

	s.logger.Info("Settlements created",
		"pending", len(proposals),
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
	)
	return connect.NewResponse(&api.CreateSettlementsResponse{
		Settlements: settlementsToAPI(proposals, now),
		Created:     result.Created,
		Updated:     result.Updated,
		Deleted:     result.Deleted,
	}), nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSettlementResponse{Settlement: settlementToAPI(settlement, s.now())}), nil
}

// ListSettlements returns settlements by status, participant or overdue state.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	now := s.now()
	filter := storage.SettlementFilter{
		Status:        models.SettlementStatus(req.Msg.Status),
		ParticipantID: req.Msg.ParticipantID,
	}
	if req.Msg.OverdueOnly {
		if filter.Status == models.SettlementPaid {
			return connect.NewResponse(&api.ListSettlementsResponse{Settlements: []*api.Settlement{}}), nil
		}
		filter.Status = models.SettlementPending
		filter.DueBefore = now.Unix()
	}

	settlements, err := s.store.ListSettlements(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list settlements", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: settlementsToAPI(settlements, now)}), nil
}

// loadForUpdate reads a settlement and rejects it if the caller saw an older version.
func (s *SettlementService) loadForUpdate(ctx context.Context, id string, expectedVersion int64) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := calculator.CheckVersion(settlement, expectedVersion); err != nil {
		return nil, err
	}
	return settlement, nil
}

// writeFailed converts a failed settlement write to a Connect error, turning
// a store version conflict into a stale-read StateConflictError.
func (s *SettlementService) writeFailed(op, settlementID string, err error) error {
	if errors.Is(err, storage.ErrVersionConflict) {
		err = &calculator.StateConflictError{SettlementID: settlementID, Invariant: calculator.InvariantStale}
	}
	if errors.Is(err, calculator.ErrStateConflict) {
		s.metrics.ObserveConflict()
		s.logger.Warn(op+" rejected", "settlement_id", settlementID, "error", err)
	} else if !errors.Is(err, calculator.ErrValidation) && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error(op+" failed", "settlement_id", settlementID, "error", err)
	}
	return toConnectError(err)
}

// MarkPaid pays a PENDING settlement in full.
func (s *SettlementService) MarkPaid(ctx context.Context, req *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settlement, err := s.loadForUpdate(ctx, req.Msg.ID, req.Msg.ExpectedVersion)
	if err != nil {
		return nil, s.writeFailed("MarkPaid", req.Msg.ID, err)
	}

	now := s.now()
	payment := calculator.Payment{Method: req.Msg.PaymentMethod, Notes: req.Msg.Notes, PaidAt: now}
	if err := calculator.MarkFullyPaid(settlement, payment); err != nil {
		return nil, s.writeFailed("MarkPaid", settlement.ID, err)
	}
	if err := s.store.UpdateSettlement(ctx, settlement); err != nil {
		return nil, s.writeFailed("MarkPaid", settlement.ID, err)
	}
	s.metrics.ObservePayment(metrics.PaymentFull, settlement.Amount.Cents())

	s.logger.Info("Settlement marked as paid",
		"settlement_id", settlement.ID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", settlement.Amount.String(),
	)
	return connect.NewResponse(&api.MarkPaidResponse{Settlement: settlementToAPI(settlement, now)}), nil
}

// MarkPartiallyPaid records a payment smaller than the settlement amount.
// The settlement keeps the remainder and a new PAID record holds the payment.
func (s *SettlementService) MarkPartiallyPaid(ctx context.Context, req *connect.Request[api.MarkPartiallyPaidRequest]) (*connect.Response[api.MarkPartiallyPaidResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}
	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settlement, err := s.loadForUpdate(ctx, req.Msg.ID, req.Msg.ExpectedVersion)
	if err != nil {
		return nil, s.writeFailed("MarkPartiallyPaid", req.Msg.ID, err)
	}

	now := s.now()
	payment := calculator.Payment{Method: req.Msg.PaymentMethod, Notes: req.Msg.Notes, PaidAt: now}
	paid, err := calculator.MarkPartiallyPaid(settlement, amount, payment)
	if err != nil {
		return nil, s.writeFailed("MarkPartiallyPaid", settlement.ID, err)
	}
	if err := s.store.RecordPartialPayment(ctx, settlement, paid); err != nil {
		return nil, s.writeFailed("MarkPartiallyPaid", settlement.ID, err)
	}
	s.metrics.ObservePayment(metrics.PaymentPartial, paid.Amount.Cents())

	s.logger.Info("Settlement partially paid",
		"settlement_id", settlement.ID,
		"paid_id", paid.ID,
		"paid", paid.Amount.String(),
		"remaining", settlement.Amount.String(),
	)
	return connect.NewResponse(&api.MarkPartiallyPaidResponse{
		Remainder: settlementToAPI(settlement, now),
		Paid:      settlementToAPI(paid, now),
	}), nil
}

// AmendPayment corrects the payment method and notes of a PAID settlement.
func (s *SettlementService) AmendPayment(ctx context.Context, req *connect.Request[api.AmendPaymentRequest]) (*connect.Response[api.AmendPaymentResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settlement, err := s.loadForUpdate(ctx, req.Msg.ID, req.Msg.ExpectedVersion)
	if err != nil {
		return nil, s.writeFailed("AmendPayment", req.Msg.ID, err)
	}
	if err := calculator.AmendPaymentDetails(settlement, req.Msg.PaymentMethod, req.Msg.Notes); err != nil {
		return nil, s.writeFailed("AmendPayment", settlement.ID, err)
	}
	if err := s.store.UpdateSettlement(ctx, settlement); err != nil {
		return nil, s.writeFailed("AmendPayment", settlement.ID, err)
	}

	s.logger.Info("Payment details amended", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.AmendPaymentResponse{Settlement: settlementToAPI(settlement, s.now())}), nil
}

// DeleteSettlement removes a PENDING settlement.
func (s *SettlementService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	if err := s.validator.Check(req.Msg); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settlement, err := s.loadForUpdate(ctx, req.Msg.ID, req.Msg.ExpectedVersion)
	if err != nil {
		return nil, s.writeFailed("DeleteSettlement", req.Msg.ID, err)
	}
	if err := calculator.RequireDeletable(settlement); err != nil {
		return nil, s.writeFailed("DeleteSettlement", settlement.ID, err)
	}
	if err := s.store.DeleteSettlement(ctx, settlement.ID, settlement.Version); err != nil {
		return nil, s.writeFailed("DeleteSettlement", settlement.ID, err)
	}

	s.logger.Info("Settlement deleted", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// GetSummary counts settlements by state and sums their amounts.
func (s *SettlementService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	settlements, err := s.store.ListSettlements(ctx, storage.SettlementFilter{})
	if err != nil {
		s.logger.Error("Failed to list settlements", "error", err)
		return nil, toConnectError(err)
	}

	now := s.now()
	summary := &api.Summary{}
	total, pending := money.Zero, money.Zero
	for _, st := range settlements {
		summary.TotalCount++
		total = total.Add(st.Amount)
		switch st.Status {
		case models.SettlementPending:
			summary.PendingCount++
			pending = pending.Add(st.Amount)
			if st.IsOverdue(now) {
				summary.OverdueCount++
			}
		case models.SettlementPaid:
			summary.PaidCount++
		}
	}
	summary.TotalAmount = total.String()
	summary.PendingAmount = pending.String()

	return connect.NewResponse(&api.GetSummaryResponse{Summary: summary}), nil
}
