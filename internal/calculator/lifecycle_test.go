package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
)

var paidAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func pendingSettlement(amount string) *models.Settlement {
	return &models.Settlement{
		ID:         "s1",
		FromUserID: "bob",
		ToUserID:   "alice",
		Amount:     money.MustParse(amount),
		Status:     models.SettlementPending,
		DueDate:    paidAt.Add(30 * 24 * time.Hour).Unix(),
		Version:    3,
	}
}

func TestMarkFullyPaid(t *testing.T) {
	s := pendingSettlement("33.33")
	err := MarkFullyPaid(s, Payment{Method: "Zelle", Notes: "thanks", PaidAt: paidAt})
	require.NoError(t, err)

	assert.Equal(t, models.SettlementPaid, s.Status)
	assert.Equal(t, paidAt.Unix(), s.PaidAt)
	assert.Equal(t, "Zelle", s.PaymentMethod)
	assert.Equal(t, "thanks", s.Notes)
	assert.Equal(t, money.MustParse("33.33"), s.Amount)

	err = MarkFullyPaid(s, Payment{PaidAt: paidAt})
	var conflict *StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, InvariantAlreadyPaid, conflict.Invariant)
	assert.Equal(t, "s1", conflict.SettlementID)
}

func TestMarkPartiallyPaid(t *testing.T) {
	t.Run("C: splits into remainder and paid portion", func(t *testing.T) {
		s := pendingSettlement("50.00")
		original := s.Amount

		paid, err := MarkPartiallyPaid(s, money.MustParse("20.00"), Payment{Method: "Cash", Notes: "first half", PaidAt: paidAt})
		require.NoError(t, err)

		assert.Equal(t, models.SettlementPending, s.Status)
		assert.Equal(t, money.MustParse("30.00"), s.Amount)
		assert.Zero(t, s.PaidAt)

		assert.Empty(t, paid.ID)
		assert.Equal(t, models.SettlementPaid, paid.Status)
		assert.Equal(t, money.MustParse("20.00"), paid.Amount)
		assert.Equal(t, "bob", paid.FromUserID)
		assert.Equal(t, "alice", paid.ToUserID)
		assert.Equal(t, "Cash", paid.PaymentMethod)
		assert.Equal(t, "first half", paid.Notes)
		assert.Equal(t, paidAt.Unix(), paid.PaidAt)
		assert.Equal(t, s.DueDate, paid.DueDate)

		assert.Equal(t, original, s.Amount.Add(paid.Amount))
	})

	t.Run("conservation holds for every cent", func(t *testing.T) {
		for cents := int64(1); cents < 777; cents += 37 {
			s := pendingSettlement("7.77")
			paid, err := MarkPartiallyPaid(s, money.FromCents(cents), Payment{PaidAt: paidAt})
			require.NoError(t, err)
			assert.Equal(t, money.MustParse("7.77"), s.Amount.Add(paid.Amount))
		}
	})

	rejects := []struct {
		name      string
		amount    string
		invariant string
	}{
		{name: "zero", amount: "0", invariant: InvariantPartialPositive},
		{name: "negative", amount: "-1.00", invariant: InvariantPartialPositive},
		{name: "equal to amount", amount: "50.00", invariant: InvariantPartialBelowAmount},
		{name: "above amount", amount: "60.00", invariant: InvariantPartialBelowAmount},
	}
	for _, tt := range rejects {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			s := pendingSettlement("50.00")
			paid, err := MarkPartiallyPaid(s, money.MustParse(tt.amount), Payment{PaidAt: paidAt})
			assert.Nil(t, paid)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.invariant, verr.Invariant)
			assert.Equal(t, money.MustParse("50.00"), s.Amount, "settlement must be untouched")
		})
	}

	t.Run("rejects paid settlement", func(t *testing.T) {
		s := pendingSettlement("50.00")
		s.Status = models.SettlementPaid
		_, err := MarkPartiallyPaid(s, money.MustParse("10.00"), Payment{PaidAt: paidAt})
		assert.ErrorIs(t, err, ErrStateConflict)
	})
}

func TestCheckVersion(t *testing.T) {
	s := pendingSettlement("10.00")
	assert.NoError(t, CheckVersion(s, 0))
	assert.NoError(t, CheckVersion(s, 3))

	err := CheckVersion(s, 2)
	var conflict *StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, InvariantStale, conflict.Invariant)
}

func TestAmendPaymentDetails(t *testing.T) {
	s := pendingSettlement("10.00")
	assert.ErrorIs(t, AmendPaymentDetails(s, "Cash", ""), ErrStateConflict)

	require.NoError(t, MarkFullyPaid(s, Payment{Method: "Csh", PaidAt: paidAt}))
	require.NoError(t, AmendPaymentDetails(s, "Cash", "typo fixed"))
	assert.Equal(t, "Cash", s.PaymentMethod)
	assert.Equal(t, "typo fixed", s.Notes)
	assert.Equal(t, paidAt.Unix(), s.PaidAt)

	assert.ErrorIs(t, RequireDeletable(s), ErrStateConflict)
}

func TestCreateSettlementsFromTransfers(t *testing.T) {
	transfers := []Transfer{
		{From: "bob", To: "alice", Amount: money.MustParse("33.33")},
		{From: "carol", To: "alice", Amount: money.MustParse("33.33")},
	}
	now := paidAt
	due := 30 * 24 * time.Hour

	first := CreateSettlementsFromTransfers(transfers, []string{"e2", "e1"}, now, due)
	require.Len(t, first, 2)
	for i, s := range first {
		assert.Equal(t, models.SettlementPending, s.Status)
		assert.Equal(t, transfers[i].Amount, s.Amount)
		assert.Equal(t, now.Add(due).Unix(), s.DueDate)
		assert.Len(t, s.Fingerprint, 64)
	}
	assert.NotEqual(t, first[0].Fingerprint, first[1].Fingerprint)

	// Same expense set in another order: same fingerprints.
	again := CreateSettlementsFromTransfers(transfers, []string{"e1", "e2"}, now.Add(time.Hour), due)
	assert.Equal(t, first[0].Fingerprint, again[0].Fingerprint)
	assert.Equal(t, first[1].Fingerprint, again[1].Fingerprint)

	// A new expense changes every fingerprint.
	changed := CreateSettlementsFromTransfers(transfers, []string{"e1", "e2", "e3"}, now, due)
	assert.NotEqual(t, first[0].Fingerprint, changed[0].Fingerprint)

	// Pair order does not matter.
	d := ExpenseSetDigest([]string{"e1"})
	assert.Equal(t, Fingerprint("alice", "bob", d), Fingerprint("bob", "alice", d))
}
