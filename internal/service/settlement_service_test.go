package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/logging"
)

// createSharedExpense records an expense paid by alice and split with the
// given participants.
func createSharedExpense(t *testing.T, ts *testServer, amount string, splitWith ...string) *api.Expense {
	t.Helper()
	resp, err := ts.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		Description:       "Vinyl roll",
		Category:          "MATERIALS",
		Amount:            amount,
		IsShared:          true,
		SplitParticipants: splitWith,
	}))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func createSettlements(t *testing.T, ts *testServer) *api.CreateSettlementsResponse {
	t.Helper()
	resp, err := ts.settlements.CreateSettlements(context.Background(), connect.NewRequest(&api.CreateSettlementsRequest{}))
	require.NoError(t, err)
	return resp.Msg
}

func balancesByID(t *testing.T, ts *testServer) map[string]string {
	t.Helper()
	resp, err := ts.settlements.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{}))
	require.NoError(t, err)

	out := make(map[string]string, len(resp.Msg.Balances))
	for _, b := range resp.Msg.Balances {
		out[b.ParticipantID] = b.Amount
	}
	return out
}

// settlementFrom returns the settlement whose debtor is from.
func settlementFrom(t *testing.T, settlements []*api.Settlement, from string) *api.Settlement {
	t.Helper()
	for _, s := range settlements {
		if s.FromUserID == from {
			return s
		}
	}
	t.Fatalf("no settlement from %s in %d settlements", from, len(settlements))
	return nil
}

func TestGetBalances_NoExpenses(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.settlements.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{}))
	require.NoError(t, err)

	require.Len(t, resp.Msg.Balances, 3)
	// Ordered by display name.
	assert.Equal(t, "Alice", resp.Msg.Balances[0].DisplayName)
	assert.Equal(t, "Bob", resp.Msg.Balances[1].DisplayName)
	assert.Equal(t, "Carol", resp.Msg.Balances[2].DisplayName)
	for _, b := range resp.Msg.Balances {
		assert.Equal(t, "0.00", b.Amount)
	}
}

func TestCalculateSettlements_ThreeWaySplit(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")

	resp, err := ts.settlements.CalculateSettlements(context.Background(), connect.NewRequest(&api.CalculateSettlementsRequest{}))
	require.NoError(t, err)

	balances := make(map[string]string)
	for _, b := range resp.Msg.Balances {
		balances[b.ParticipantID] = b.Amount
	}
	// The payer absorbs the rounding remainder.
	assert.Equal(t, map[string]string{"alice": "66.66", "bob": "-33.33", "carol": "-33.33"}, balances)

	assert.ElementsMatch(t, []*api.Transfer{
		{From: "bob", To: "alice", Amount: "33.33"},
		{From: "carol", To: "alice", Amount: "33.33"},
	}, resp.Msg.Transfers)

	// Calculating persists nothing.
	list, err := ts.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Settlements)
}

func TestProposeTransfers(t *testing.T) {
	var buf bytes.Buffer
	svc := &SettlementService{logger: logging.New(&buf, "debug", "json")}

	transfers := svc.proposeTransfers(map[string]money.Money{
		"alice": money.MustParse("66.66"),
		"bob":   money.MustParse("-33.33"),
		"carol": money.MustParse("-33.33"),
	})
	assert.Len(t, transfers, 2)
	assert.Empty(t, buf.String())

	// A ledger that does not sum to zero cannot be cleared.
	transfers = svc.proposeTransfers(map[string]money.Money{
		"alice": money.MustParse("1.00"),
		"bob":   money.MustParse("-0.40"),
	})
	require.Len(t, transfers, 1)
	assert.Equal(t, money.MustParse("0.40"), transfers[0].Amount)
	assert.Contains(t, buf.String(), "Transfers leave balance unsettled")
	assert.Contains(t, buf.String(), `"participant":"alice"`)
	assert.Contains(t, buf.String(), `"remaining":"0.60"`)
}

func TestCreateSettlements_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")

	first := createSettlements(t, ts)
	assert.Equal(t, 2, first.Created)
	require.Len(t, first.Settlements, 2)
	for _, s := range first.Settlements {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "PENDING", s.Status)
		assert.Equal(t, "alice", s.ToUserID)
		assert.Equal(t, "33.33", s.Amount)
		assert.Equal(t, int64(1), s.Version)
		assert.Equal(t, ts.clock.Now().Add(testDueAfter).Unix(), s.DueDate)
	}

	second := createSettlements(t, ts)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 0, second.Deleted)
	assert.ElementsMatch(t,
		[]string{first.Settlements[0].ID, first.Settlements[1].ID},
		[]string{second.Settlements[0].ID, second.Settlements[1].ID},
	)

	list, err := ts.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Settlements, 2)
}

func TestCreateSettlements_NewExpenseReplacesPending(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")
	first := createSettlements(t, ts)

	// Bob fronts 30.00 for everyone.
	_, err := ts.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		Amount:            "30.00",
		PaidBy:            "bob",
		IsShared:          true,
		SplitParticipants: []string{"alice", "carol"},
	}))
	require.NoError(t, err)

	second := createSettlements(t, ts)
	assert.Equal(t, 2, second.Created)
	assert.Equal(t, 2, second.Deleted)
	assert.Equal(t, "13.33", settlementFrom(t, second.Settlements, "bob").Amount)
	assert.Equal(t, "43.33", settlementFrom(t, second.Settlements, "carol").Amount)

	_, err = ts.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{ID: first.Settlements[0].ID}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestMarkPaid_RecomputesBalances(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")
	bob := settlementFrom(t, createSettlements(t, ts).Settlements, "bob")

	resp, err := ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{
		ID:              bob.ID,
		PaymentMethod:   "Venmo",
		Notes:           "March materials",
		ExpectedVersion: bob.Version,
	}))
	require.NoError(t, err)
	paid := resp.Msg.Settlement
	assert.Equal(t, "PAID", paid.Status)
	assert.Equal(t, "Venmo", paid.PaymentMethod)
	assert.Equal(t, "March materials", paid.Notes)
	assert.Equal(t, ts.clock.Now().Unix(), paid.PaidAt)
	assert.Equal(t, bob.Version+1, paid.Version)

	assert.Equal(t, map[string]string{"alice": "33.33", "bob": "0.00", "carol": "-33.33"}, balancesByID(t, ts))

	calc, err := ts.settlements.CalculateSettlements(context.Background(), connect.NewRequest(&api.CalculateSettlementsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []*api.Transfer{{From: "carol", To: "alice", Amount: "33.33"}}, calc.Msg.Transfers)

	// Carol's PENDING settlement still matches the proposal.
	again := createSettlements(t, ts)
	assert.Equal(t, 0, again.Created+again.Updated+again.Deleted)
	require.Len(t, again.Settlements, 1)
	assert.Equal(t, "carol", again.Settlements[0].FromUserID)

	_, err = ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{ID: bob.ID}))
	assertCode(t, connect.CodeFailedPrecondition, err)
}

func TestMarkPaid_StaleVersion(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")
	bob := settlementFrom(t, createSettlements(t, ts).Settlements, "bob")

	_, err := ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{
		ID:              bob.ID,
		ExpectedVersion: bob.Version + 1,
	}))
	assertCode(t, connect.CodeAborted, err)

	got, err := ts.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{ID: bob.ID}))
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Msg.Settlement.Status)
	assert.Equal(t, bob.Version, got.Msg.Settlement.Version)
}

func TestMarkPaid_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	_, err := ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{ID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestMarkPartiallyPaid_SplitsSettlement(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob")
	created := createSettlements(t, ts)
	require.Len(t, created.Settlements, 1)
	original := created.Settlements[0]
	require.Equal(t, "50.00", original.Amount)

	resp, err := ts.settlements.MarkPartiallyPaid(context.Background(), connect.NewRequest(&api.MarkPartiallyPaidRequest{
		ID:              original.ID,
		Amount:          "20.00",
		PaymentMethod:   "Cash",
		ExpectedVersion: original.Version,
	}))
	require.NoError(t, err)

	remainder, paid := resp.Msg.Remainder, resp.Msg.Paid
	assert.Equal(t, original.ID, remainder.ID)
	assert.Equal(t, "PENDING", remainder.Status)
	assert.Equal(t, "30.00", remainder.Amount)
	assert.Equal(t, original.Version+1, remainder.Version)

	assert.NotEqual(t, original.ID, paid.ID)
	assert.Equal(t, "PAID", paid.Status)
	assert.Equal(t, "20.00", paid.Amount)
	assert.Equal(t, "bob", paid.FromUserID)
	assert.Equal(t, "alice", paid.ToUserID)
	assert.Equal(t, "Cash", paid.PaymentMethod)

	assert.Equal(t, map[string]string{"alice": "30.00", "bob": "-30.00", "carol": "0.00"}, balancesByID(t, ts))

	// The remainder already matches the new proposal.
	again := createSettlements(t, ts)
	assert.Equal(t, 0, again.Created+again.Updated+again.Deleted)
	require.Len(t, again.Settlements, 1)
	assert.Equal(t, original.ID, again.Settlements[0].ID)
	assert.Equal(t, "30.00", again.Settlements[0].Amount)
}

func TestMarkPartiallyPaid_InvalidAmounts(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob")
	s := createSettlements(t, ts).Settlements[0]

	tests := []struct {
		name   string
		amount string
	}{
		{name: "whole amount", amount: "50.00"},
		{name: "more than owed", amount: "75.00"},
		{name: "zero", amount: "0"},
		{name: "negative", amount: "-5.00"},
		{name: "sub-cent", amount: "10.005"},
		{name: "not a number", amount: "ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.settlements.MarkPartiallyPaid(context.Background(), connect.NewRequest(&api.MarkPartiallyPaidRequest{
				ID:     s.ID,
				Amount: tt.amount,
			}))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}

	got, err := ts.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{ID: s.ID}))
	require.NoError(t, err)
	assert.Equal(t, "50.00", got.Msg.Settlement.Amount)
	assert.Equal(t, s.Version, got.Msg.Settlement.Version)
}

func TestMarkPartiallyPaid_Concurrent(t *testing.T) {
	t.Run("same expected version", func(t *testing.T) {
		ts := setupTestServer(t)
		createSharedExpense(t, ts, "100.00", "bob")
		s := createSettlements(t, ts).Settlements[0]

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = ts.settlements.MarkPartiallyPaid(context.Background(), connect.NewRequest(&api.MarkPartiallyPaidRequest{
					ID:              s.ID,
					Amount:          "10.00",
					ExpectedVersion: s.Version,
				}))
			}(i)
		}
		wg.Wait()

		var succeeded, aborted int
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case connect.CodeOf(err) == connect.CodeAborted:
				aborted++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, aborted)

		got, err := ts.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{ID: s.ID}))
		require.NoError(t, err)
		assert.Equal(t, "40.00", got.Msg.Settlement.Amount)
	})

	t.Run("unversioned payments all apply", func(t *testing.T) {
		ts := setupTestServer(t)
		createSharedExpense(t, ts, "100.00", "bob")
		s := createSettlements(t, ts).Settlements[0]

		const payments = 4
		var wg sync.WaitGroup
		for i := 0; i < payments; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := ts.settlements.MarkPartiallyPaid(context.Background(), connect.NewRequest(&api.MarkPartiallyPaidRequest{
					ID:     s.ID,
					Amount: "5.00",
				}))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := ts.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{ID: s.ID}))
		require.NoError(t, err)
		assert.Equal(t, "30.00", got.Msg.Settlement.Amount)
		assert.Equal(t, s.Version+payments, got.Msg.Settlement.Version)

		paid, err := ts.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{Status: "PAID"}))
		require.NoError(t, err)
		assert.Len(t, paid.Msg.Settlements, payments)
		assert.Equal(t, map[string]string{"alice": "30.00", "bob": "-30.00", "carol": "0.00"}, balancesByID(t, ts))
	})
}

func TestAmendPayment(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")
	created := createSettlements(t, ts).Settlements
	bob := settlementFrom(t, created, "bob")
	carol := settlementFrom(t, created, "carol")

	_, err := ts.settlements.AmendPayment(context.Background(), connect.NewRequest(&api.AmendPaymentRequest{
		ID:    carol.ID,
		Notes: "not paid yet",
	}))
	assertCode(t, connect.CodeFailedPrecondition, err)

	paid, err := ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{ID: bob.ID, PaymentMethod: "Venmo"}))
	require.NoError(t, err)

	resp, err := ts.settlements.AmendPayment(context.Background(), connect.NewRequest(&api.AmendPaymentRequest{
		ID:              bob.ID,
		PaymentMethod:   "Zelle",
		Notes:           "wrong app",
		ExpectedVersion: paid.Msg.Settlement.Version,
	}))
	require.NoError(t, err)
	amended := resp.Msg.Settlement
	assert.Equal(t, "Zelle", amended.PaymentMethod)
	assert.Equal(t, "wrong app", amended.Notes)
	assert.Equal(t, paid.Msg.Settlement.Amount, amended.Amount)
	assert.Equal(t, paid.Msg.Settlement.PaidAt, amended.PaidAt)

	// A second amend against the old version is stale.
	_, err = ts.settlements.AmendPayment(context.Background(), connect.NewRequest(&api.AmendPaymentRequest{
		ID:              bob.ID,
		ExpectedVersion: paid.Msg.Settlement.Version,
	}))
	assertCode(t, connect.CodeAborted, err)
}

func TestDeleteSettlement(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")
	created := createSettlements(t, ts).Settlements
	bob := settlementFrom(t, created, "bob")
	carol := settlementFrom(t, created, "carol")

	_, err := ts.settlements.DeleteSettlement(context.Background(), connect.NewRequest(&api.DeleteSettlementRequest{
		ID:              carol.ID,
		ExpectedVersion: carol.Version,
	}))
	require.NoError(t, err)

	_, err = ts.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{ID: carol.ID}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{ID: bob.ID}))
	require.NoError(t, err)

	_, err = ts.settlements.DeleteSettlement(context.Background(), connect.NewRequest(&api.DeleteSettlementRequest{ID: bob.ID}))
	assertCode(t, connect.CodeFailedPrecondition, err)

	_, err = ts.settlements.DeleteSettlement(context.Background(), connect.NewRequest(&api.DeleteSettlementRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestListSettlements_Filters(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")
	bob := settlementFrom(t, createSettlements(t, ts).Settlements, "bob")

	_, err := ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{ID: bob.ID}))
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *api.ListSettlementsRequest
		wantLen int
	}{
		{name: "all", req: &api.ListSettlementsRequest{}, wantLen: 2},
		{name: "pending", req: &api.ListSettlementsRequest{Status: "PENDING"}, wantLen: 1},
		{name: "paid", req: &api.ListSettlementsRequest{Status: "PAID"}, wantLen: 1},
		{name: "involving bob", req: &api.ListSettlementsRequest{ParticipantID: "bob"}, wantLen: 1},
		{name: "involving alice", req: &api.ListSettlementsRequest{ParticipantID: "alice"}, wantLen: 2},
		{name: "pending for bob", req: &api.ListSettlementsRequest{Status: "PENDING", ParticipantID: "bob"}, wantLen: 0},
		{name: "nothing overdue yet", req: &api.ListSettlementsRequest{OverdueOnly: true}, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ts.settlements.ListSettlements(context.Background(), connect.NewRequest(tt.req))
			require.NoError(t, err)
			assert.Len(t, resp.Msg.Settlements, tt.wantLen)
		})
	}

	_, err = ts.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{Status: "LOST"}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestOverdueAndSummary(t *testing.T) {
	ts := setupTestServer(t)
	createSharedExpense(t, ts, "100.00", "bob", "carol")
	bob := settlementFrom(t, createSettlements(t, ts).Settlements, "bob")

	_, err := ts.settlements.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{ID: bob.ID}))
	require.NoError(t, err)

	summary, err := ts.settlements.GetSummary(context.Background(), connect.NewRequest(&api.GetSummaryRequest{}))
	require.NoError(t, err)
	assert.Equal(t, &api.Summary{
		TotalCount:    2,
		PendingCount:  1,
		PaidCount:     1,
		OverdueCount:  0,
		TotalAmount:   "66.66",
		PendingAmount: "33.33",
	}, summary.Msg.Summary)

	ts.clock.Advance(testDueAfter + 24*time.Hour)

	overdue, err := ts.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{OverdueOnly: true}))
	require.NoError(t, err)
	require.Len(t, overdue.Msg.Settlements, 1)
	assert.Equal(t, "carol", overdue.Msg.Settlements[0].FromUserID)
	assert.True(t, overdue.Msg.Settlements[0].Overdue)

	// PAID settlements are never overdue.
	paidOverdue, err := ts.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{Status: "PAID", OverdueOnly: true}))
	require.NoError(t, err)
	assert.Empty(t, paidOverdue.Msg.Settlements)

	got, err := ts.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{ID: bob.ID}))
	require.NoError(t, err)
	assert.False(t, got.Msg.Settlement.Overdue)

	summary, err = ts.settlements.GetSummary(context.Background(), connect.NewRequest(&api.GetSummaryRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Msg.Summary.OverdueCount)
}
