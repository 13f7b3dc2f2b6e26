package models

import (
	"time"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
)

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "PENDING"
	SettlementPaid    SettlementStatus = "PAID"
)

// Valid reports whether s is a known status.
func (s SettlementStatus) Valid() bool {
	return s == SettlementPending || s == SettlementPaid
}

// Settlement represents an obligation from one participant to another and,
// once PAID, its resolution.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// FromUserID is the debtor.
	FromUserID string

	// ToUserID is the creditor.
	ToUserID string

	// Amount is the obligation. For a partially paid settlement this is the
	// unpaid remainder.
	Amount money.Money

	// Status is PENDING or PAID.
	Status SettlementStatus

	// DueDate is the Unix timestamp by which a PENDING settlement should be paid.
	DueDate int64

	// PaidAt is the Unix timestamp of payment; zero while PENDING.
	PaidAt int64

	// PaymentMethod is an optional free-form payment channel (e.g., "Venmo").
	PaymentMethod string

	// Notes is an optional description.
	Notes string

	// Fingerprint identifies the proposal a PENDING settlement was minted from.
	// Empty for PAID records split off a partial payment.
	Fingerprint string

	// Version increments on every write and guards against concurrent updates.
	Version int64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}

// IsPending reports whether the settlement is still unpaid.
func (s *Settlement) IsPending() bool {
	return s.Status == SettlementPending
}

// IsOverdue reports whether a PENDING settlement is past its due date.
func (s *Settlement) IsOverdue(now time.Time) bool {
	return s.IsPending() && s.DueDate > 0 && s.DueDate < now.Unix()
}

// Involves reports whether the participant is on either side of the settlement.
func (s *Settlement) Involves(participantID string) bool {
	return s.FromUserID == participantID || s.ToUserID == participantID
}
