package calculator

import (
	"encoding/hex"
	"sort"
	"time"

	"github.com/zeebo/blake3"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
)

// ExpenseSetDigest hashes a set of expense IDs independent of their order.
func ExpenseSetDigest(expenseIDs []string) string {
	ids := append([]string(nil), expenseIDs...)
	sort.Strings(ids)

	h := blake3.New()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a proposed settlement by its (unordered) pair of
// participants and the expense set it was derived from. Proposing again from
// the same expenses yields the same fingerprint.
func Fingerprint(a, b, expenseSetDigest string) string {
	if b < a {
		a, b = b, a
	}

	h := blake3.New()
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	h.Write([]byte{0})
	h.Write([]byte(expenseSetDigest))
	return hex.EncodeToString(h.Sum(nil))
}

// CreateSettlementsFromTransfers mints PENDING settlement records for
// proposed transfers. The records have no ID; the store assigns one or
// matches an existing PENDING record by fingerprint.
func CreateSettlementsFromTransfers(transfers []Transfer, expenseIDs []string, now time.Time, dueAfter time.Duration) []*models.Settlement {
	digest := ExpenseSetDigest(expenseIDs)

	settlements := make([]*models.Settlement, 0, len(transfers))
	for _, t := range transfers {
		settlements = append(settlements, &models.Settlement{
			FromUserID:  t.From,
			ToUserID:    t.To,
			Amount:      t.Amount,
			Status:      models.SettlementPending,
			DueDate:     now.Add(dueAfter).Unix(),
			Fingerprint: Fingerprint(t.From, t.To, digest),
			CreatedAt:   now.Unix(),
		})
	}
	return settlements
}
