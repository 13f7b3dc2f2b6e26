package calculator

import (
	"fmt"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
)

// ComputeBalances derives every participant's net balance from shared
// expenses and settlement history. Positive means the participant is owed
// money; negative means they owe.
//
// Algorithm:
//   - Every participant starts at zero.
//   - For each counted shared expense: the payer is credited the full amount,
//     and every person in the split (payer included) is debited their share.
//   - For each PAID settlement: the debtor is credited and the creditor debited,
//     reversing the part of the obligation that has been paid.
//   - PENDING settlements are ignored; the expenses already encode them.
//
// Every debit has a matching credit, so the balances sum to zero.
// Malformed input is rejected with a *ValidationError rather than skipped.
func ComputeBalances(participants []models.Participant, expenses []models.SharedExpense, settlements []models.Settlement) (map[string]money.Money, error) {
	// Everyone starts at zero
	balances := make(map[string]money.Money, len(participants))
	for _, p := range participants {
		balances[p.ID] = money.Zero
	}
	known := func(id string) bool {
		_, ok := balances[id]
		return ok
	}

	for i := range expenses {
		e := &expenses[i]
		if err := ValidateExpense(e, known); err != nil {
			return nil, err
		}
		// Skip rejected and reimbursed expenses
		if !e.Status.CountsTowardBalances() {
			continue
		}

		shares, err := SplitExpense(e)
		if err != nil {
			return nil, fmt.Errorf("failed to split expense %s: %w", e.ID, err)
		}
		// Skip expenses nobody shares
		if shares == nil {
			continue
		}

		// Credit the payer, then debit everyone's share
		balances[e.PaidBy] = balances[e.PaidBy].Add(e.Amount)
		for participant, share := range shares {
			balances[participant] = balances[participant].Sub(share)
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if err := validateSettlement(s, known); err != nil {
			return nil, err
		}
		// Pending settlements are still owed
		if s.Status != models.SettlementPaid {
			continue
		}
		balances[s.FromUserID] = balances[s.FromUserID].Add(s.Amount)
		balances[s.ToUserID] = balances[s.ToUserID].Sub(s.Amount)
	}

	return balances, nil
}

func validateSettlement(s *models.Settlement, known func(id string) bool) error {
	if !s.Status.Valid() {
		return invalid(InvariantKnownStatus, "settlement %s has status %q", s.ID, s.Status)
	}
	if !s.Amount.IsPositive() {
		return invalid(InvariantSettlementAmount, "settlement %s has amount %s", s.ID, s.Amount)
	}
	if s.FromUserID == s.ToUserID {
		return invalid(InvariantDistinctParties, "settlement %s is from %q to itself", s.ID, s.FromUserID)
	}
	if known != nil && !known(s.FromUserID) {
		return invalid(InvariantKnownParticipant, "settlement %s is from %q", s.ID, s.FromUserID)
	}
	if known != nil && !known(s.ToUserID) {
		return invalid(InvariantKnownParticipant, "settlement %s is to %q", s.ID, s.ToUserID)
	}
	return nil
}

// Total sums a balance map. For the output of ComputeBalances it is zero.
func Total(balances map[string]money.Money) money.Money {
	total := money.Zero
	for _, b := range balances {
		total = total.Add(b)
	}
	return total
}
