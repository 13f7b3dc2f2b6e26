package models

import "github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"

// ExpenseStatus is the approval state of an expense.
type ExpenseStatus string

const (
	ExpensePending    ExpenseStatus = "PENDING"
	ExpenseApproved   ExpenseStatus = "APPROVED"
	ExpenseReimbursed ExpenseStatus = "REIMBURSED"
	ExpenseRejected   ExpenseStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePending, ExpenseApproved, ExpenseReimbursed, ExpenseRejected:
		return true
	}
	return false
}

// CountsTowardBalances reports whether expenses in this status take part in
// settlement balances. Rejected and reimbursed expenses do not.
func (s ExpenseStatus) CountsTowardBalances() bool {
	return s == ExpensePending || s == ExpenseApproved
}

// ExpenseCategory classifies an expense for reporting.
type ExpenseCategory string

const (
	CategoryMaterials     ExpenseCategory = "MATERIALS"
	CategoryTools         ExpenseCategory = "TOOLS"
	CategoryTravel        ExpenseCategory = "TRAVEL"
	CategoryMeals         ExpenseCategory = "MEALS"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryInsurance     ExpenseCategory = "INSURANCE"
	CategorySubscriptions ExpenseCategory = "SUBSCRIPTIONS"
	CategoryMarketing     ExpenseCategory = "MARKETING"
	CategoryOfficeSupply  ExpenseCategory = "OFFICE_SUPPLIES"
	CategoryEquipment     ExpenseCategory = "EQUIPMENT"
	CategoryMaintenance   ExpenseCategory = "MAINTENANCE"
	CategoryOther         ExpenseCategory = "OTHER"
)

// SharedExpense is an expense paid by one participant and optionally split
// with others.
//
// When IsShared is true, SplitCount counts the payer plus every entry in
// SplitParticipants. The payer is never listed in SplitParticipants.
type SharedExpense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is a short human-readable label (e.g., "Vinyl roll").
	Description string

	// Category is used for reporting only.
	Category ExpenseCategory

	// Amount is the full amount fronted by the payer.
	Amount money.Money

	// PaidBy is the participant ID of the payer.
	PaidBy string

	// IsShared marks the expense as split among several participants.
	IsShared bool

	// SplitCount is the number of people sharing the expense, payer included.
	SplitCount int

	// SplitParticipants are the participant IDs sharing the expense, payer excluded.
	SplitParticipants []string

	// Status is the approval state; only PENDING and APPROVED expenses affect balances.
	Status ExpenseStatus

	// Date is the Unix timestamp when the expense was incurred.
	Date int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
