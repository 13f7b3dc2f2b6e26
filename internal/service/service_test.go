package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/metrics"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/middleware"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/storage/sqlite"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api/apiconnect"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/logging"
)

const testDueAfter = 14 * 24 * time.Hour

// testAuthInterceptor returns a Connect interceptor that sets a test user in the context.
func testAuthInterceptor(userID string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(middleware.WithUser(ctx, userID, userID+"@example.com"), req)
		}
	}
}

// testClock is a settable time source shared with the server goroutines.
type testClock struct {
	unix atomic.Int64
}

func newTestClock(t time.Time) *testClock {
	c := &testClock{}
	c.Set(t)
	return c
}

func (c *testClock) Now() time.Time          { return time.Unix(c.unix.Load(), 0) }
func (c *testClock) Set(t time.Time)         { c.unix.Store(t.Unix()) }
func (c *testClock) Advance(d time.Duration) { c.Set(c.Now().Add(d)) }

type testServer struct {
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
	store       *sqlite.SQLiteStore
	clock       *testClock
}

// setupTestServer starts the expense and settlement services on a fresh
// SQLite database seeded with alice, bob and carol. Requests run as alice.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, u := range []struct{ id, name string }{
		{"alice", "Alice"},
		{"bob", "Bob"},
		{"carol", "Carol"},
	} {
		require.NoError(t, store.CreateUser(context.Background(), &models.User{
			ID:           u.id,
			Email:        u.id + "@example.com",
			DisplayName:  u.name,
			PasswordHash: "unused",
			CreatedAt:    1,
			UpdatedAt:    1,
		}))
	}

	validator, err := NewRequestValidator()
	require.NoError(t, err)
	logger := logging.New(io.Discard, "debug", "text")
	_, m := metrics.NewRegistry()
	clock := newTestClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	settlementSvc := NewSettlementService(store, validator, m, logger, testDueAfter)
	settlementSvc.now = clock.Now

	interceptors := connect.WithInterceptors(testAuthInterceptor("alice"))
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, validator, logger), interceptors))
	mux.Handle(apiconnect.NewSettlementServiceHandler(settlementSvc, interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		store:       store,
		clock:       clock,
	}
}

// assertCode fails the test unless err is a Connect error with the given code.
func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}
