package calculator

import (
	"sort"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
)

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount money.Money
}

type position struct {
	id        string
	remaining money.Money
}

// ComputeTransfers proposes payments that bring every balance to zero.
//
// Greedy matching: creditors are visited in ascending participant ID order,
// and each one is paid by debtors scanned in the same order until its balance
// is exhausted. Each transfer settles at least one side, so n participants
// with non-zero balances need at most n-1 transfers. The output depends only
// on the input map, never on map iteration order.
func ComputeTransfers(balances map[string]money.Money) []Transfer {
	// Stable order
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Separate creditors and debtors
	var creditors, debtors []*position
	for _, id := range ids {
		b := balances[id]
		switch {
		case b.EffectivelyZero():
		case b.IsPositive():
			creditors = append(creditors, &position{id: id, remaining: b})
		default:
			debtors = append(debtors, &position{id: id, remaining: b})
		}
	}

	// Match each creditor against debtors until paid off
	var transfers []Transfer
	for _, c := range creditors {
		for _, d := range debtors {
			if c.remaining.EffectivelyZero() {
				break
			}
			if d.remaining.EffectivelyZero() {
				continue
			}

			amount := money.Min(c.remaining, d.remaining.Abs())
			if amount.EffectivelyZero() {
				continue
			}
			transfers = append(transfers, Transfer{From: d.id, To: c.id, Amount: amount})

			c.remaining = c.remaining.Sub(amount)
			d.remaining = d.remaining.Add(amount)
		}
	}

	return transfers
}

// ApplyTransfers returns a copy of balances with each transfer applied:
// the payer's balance rises and the receiver's falls.
func ApplyTransfers(balances map[string]money.Money, transfers []Transfer) map[string]money.Money {
	out := make(map[string]money.Money, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, t := range transfers {
		out[t.From] = out[t.From].Add(t.Amount)
		out[t.To] = out[t.To].Sub(t.Amount)
	}
	return out
}
