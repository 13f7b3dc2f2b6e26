package calculator

import (
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
)

// ValidateExpense checks the structural invariants of an expense.
// known reports whether a participant ID exists; pass nil to skip the lookup.
func ValidateExpense(e *models.SharedExpense, known func(id string) bool) error {
	if e.SplitCount < 1 {
		return invalid(InvariantSplitCountPositive, "expense %s has split count %d", e.ID, e.SplitCount)
	}
	if e.Amount < 0 {
		return invalid(InvariantExpenseAmount, "expense %s has amount %s", e.ID, e.Amount)
	}
	if !e.Status.Valid() {
		return invalid(InvariantKnownStatus, "expense %s has status %q", e.ID, e.Status)
	}
	if known != nil && !known(e.PaidBy) {
		return invalid(InvariantKnownParticipant, "expense %s is paid by %q", e.ID, e.PaidBy)
	}
	if !e.IsShared {
		return nil
	}

	seen := make(map[string]bool, len(e.SplitParticipants))
	for _, p := range e.SplitParticipants {
		if p == e.PaidBy {
			return invalid(InvariantPayerNotInSplit, "expense %s lists payer %q in its split", e.ID, p)
		}
		if seen[p] {
			return invalid(InvariantSplitUnique, "expense %s lists %q more than once", e.ID, p)
		}
		seen[p] = true
		if known != nil && !known(p) {
			return invalid(InvariantKnownParticipant, "expense %s is split with %q", e.ID, p)
		}
	}

	if e.SplitCount != len(e.SplitParticipants)+1 {
		return invalid(InvariantSplitCountMatches,
			"expense %s has split count %d but %d split participant(s) besides the payer",
			e.ID, e.SplitCount, len(e.SplitParticipants))
	}
	return nil
}

// SplitExpense computes how much each person bears of a shared expense.
//
// Every split participant bears round(amount / splitCount); the payer bears
// whatever is left, so the shares always sum to the amount exactly. When
// rounding pushes the others' shares above the amount, the payer's share is
// negative.
// The expense must already have passed ValidateExpense. Expenses that are
// not shared, or shared by one person, yield nil.
func SplitExpense(e *models.SharedExpense) (map[string]money.Money, error) {
	if !e.IsShared || e.SplitCount <= 1 {
		return nil, nil
	}

	share, err := e.Amount.Share(e.SplitCount)
	if err != nil {
		return nil, err
	}

	shares := make(map[string]money.Money, e.SplitCount)
	owedByOthers := money.Zero
	for _, p := range e.SplitParticipants {
		shares[p] = share
		owedByOthers = owedByOthers.Add(share)
	}
	shares[e.PaidBy] = e.Amount.Sub(owedByOthers)

	return shares, nil
}
