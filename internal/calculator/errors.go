package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrStateConflict matches any *StateConflictError.
	ErrStateConflict = errors.New("settlement state conflict")
)

// Invariants reported by ValidationError and StateConflictError.
const (
	InvariantSplitCountPositive = "split count must be at least 1"
	InvariantSplitCountMatches  = "split participants do not match split count"
	InvariantPayerNotInSplit    = "payer must not appear in split participants"
	InvariantSplitUnique        = "split participants must be unique"
	InvariantKnownParticipant   = "referenced participant does not exist"
	InvariantExpenseAmount      = "expense amount must not be negative"
	InvariantKnownStatus        = "status is not recognized"
	InvariantSettlementAmount   = "settlement amount must be greater than zero"
	InvariantDistinctParties    = "settlement debtor and creditor must differ"
	InvariantPartialPositive    = "partial payment must be greater than zero"
	InvariantPartialBelowAmount = "partial payment must be less than the settlement amount"

	InvariantAlreadyPaid = "settlement is already paid"
	InvariantNotPaid     = "settlement is not paid"
	InvariantStale       = "settlement was modified since it was read"
)

// ValidationError reports malformed input. Invariant names the rule that was
// broken; Detail identifies the offending record.
type ValidationError struct {
	Invariant string
	Detail    string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Invariant
	}
	return e.Invariant + ": " + e.Detail
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(invariant, format string, args ...any) error {
	return &ValidationError{Invariant: invariant, Detail: fmt.Sprintf(format, args...)}
}

// StateConflictError reports an operation that assumed a settlement state
// which no longer holds. Callers must re-read the settlement and decide.
type StateConflictError struct {
	SettlementID string
	Invariant    string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s: settlement %s", e.Invariant, e.SettlementID)
}

// Is reports whether target is ErrStateConflict.
func (e *StateConflictError) Is(target error) bool {
	return target == ErrStateConflict
}
