package calculator

import (
	"time"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
)

// Payment is the metadata stamped on a settlement when it is paid.
type Payment struct {
	Method string
	Notes  string
	PaidAt time.Time
}

// CheckVersion rejects a settlement whose version differs from the one the
// caller read. An expected version of zero skips the check.
func CheckVersion(s *models.Settlement, expected int64) error {
	if expected != 0 && s.Version != expected {
		return &StateConflictError{SettlementID: s.ID, Invariant: InvariantStale}
	}
	return nil
}

func requirePending(s *models.Settlement) error {
	switch s.Status {
	case models.SettlementPending:
		return nil
	case models.SettlementPaid:
		return &StateConflictError{SettlementID: s.ID, Invariant: InvariantAlreadyPaid}
	default:
		return invalid(InvariantKnownStatus, "settlement %s has status %q", s.ID, s.Status)
	}
}

// MarkFullyPaid transitions a PENDING settlement to PAID in place and stamps
// the payment metadata. Marking an already PAID settlement is a
// *StateConflictError, not a no-op.
func MarkFullyPaid(s *models.Settlement, p Payment) error {
	if err := requirePending(s); err != nil {
		return err
	}

	s.Status = models.SettlementPaid
	s.PaidAt = p.PaidAt.Unix()
	s.PaymentMethod = p.Method
	s.Notes = p.Notes
	return nil
}

// MarkPartiallyPaid splits a PENDING settlement into the unpaid remainder and
// a new PAID record for amountPaid.
//
// The original settlement is amended in place: its amount drops to the
// remainder and it stays PENDING. The returned record carries the paid
// portion between the same parties, has no ID yet, and is stamped with the
// payment metadata. The two amounts sum to the original amount exactly.
//
// amountPaid must be strictly between zero and the settlement amount; paying
// the whole amount goes through MarkFullyPaid.
func MarkPartiallyPaid(s *models.Settlement, amountPaid money.Money, p Payment) (*models.Settlement, error) {
	if err := requirePending(s); err != nil {
		return nil, err
	}
	if !amountPaid.IsPositive() {
		return nil, invalid(InvariantPartialPositive,
			"amount %s against settlement %s; nothing to record", amountPaid, s.ID)
	}
	if amountPaid >= s.Amount {
		return nil, invalid(InvariantPartialBelowAmount,
			"amount %s against settlement %s of %s; mark the settlement fully paid instead",
			amountPaid, s.ID, s.Amount)
	}

	paid := &models.Settlement{
		FromUserID:    s.FromUserID,
		ToUserID:      s.ToUserID,
		Amount:        amountPaid,
		Status:        models.SettlementPaid,
		DueDate:       s.DueDate,
		PaidAt:        p.PaidAt.Unix(),
		PaymentMethod: p.Method,
		Notes:         p.Notes,
		CreatedAt:     p.PaidAt.Unix(),
	}
	s.Amount = s.Amount.Sub(amountPaid)

	return paid, nil
}

// AmendPaymentDetails corrects the payment method and notes of a PAID
// settlement. Nothing else about a PAID record may change.
func AmendPaymentDetails(s *models.Settlement, method, notes string) error {
	if s.Status != models.SettlementPaid {
		return &StateConflictError{SettlementID: s.ID, Invariant: InvariantNotPaid}
	}
	s.PaymentMethod = method
	s.Notes = notes
	return nil
}

// RequireDeletable allows only PENDING settlements to be removed.
func RequireDeletable(s *models.Settlement) error {
	return requirePending(s)
}
