// Package money provides a fixed-precision currency value.
//
// Amounts are held as an integer number of cents. Decimal input (strings or
// JSON numbers, often printed from float64 values upstream) is converted once
// at the boundary and all arithmetic afterwards is integer arithmetic.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// maxCents bounds accepted amounts so that sums across a ledger cannot
// overflow int64.
const maxCents = 1_000_000_000_000_000

// floatNoise is the largest distance from a whole cent that is read as
// binary floating-point residue rather than a sub-cent amount.
var floatNoise = decimal.New(1, -9)

var (
	// ErrPrecision matches any *PrecisionError.
	ErrPrecision = errors.New("sub-cent precision")

	// ErrSyntax is returned for input that is not a decimal number.
	ErrSyntax = errors.New("invalid amount")

	// ErrOutOfRange is returned for amounts beyond the supported magnitude.
	ErrOutOfRange = errors.New("amount out of range")

	// ErrInvalidSplit is returned when a share is requested for fewer than one person.
	ErrInvalidSplit = errors.New("split count must be at least 1")
)

// PrecisionError reports an amount that carries more than two decimal places.
// Such amounts are rejected rather than rounded.
type PrecisionError struct {
	Value string
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("amount %s has more than two decimal places", e.Value)
}

// Is reports whether target is ErrPrecision.
func (e *PrecisionError) Is(target error) bool {
	return target == ErrPrecision
}

// FromCents returns the amount for the given number of cents.
func FromCents(cents int64) Money {
	return Money(cents)
}

// FromDecimal converts a decimal amount to Money. An amount within floatNoise
// of a whole cent, such as 0.30000000000000004, is snapped to that cent.
// Any other amount with more than two decimal places is rejected with a
// *PrecisionError.
func FromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Round(2)
	if d.Sub(cents).Abs().GreaterThanOrEqual(floatNoise) {
		return Zero, &PrecisionError{Value: d.String()}
	}
	shifted := cents.Shift(2)
	if shifted.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return Zero, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return Money(shifted.IntPart()), nil
}

// Parse converts a decimal string such as "33.33" to Money.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w %q: %v", ErrSyntax, s, err)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Decimal returns the amount as a decimal with two places.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount with exactly two decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }
func (m Money) Neg() Money        { return -m }

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Min returns the smaller of two amounts.
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// Sum adds amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// EffectivelyZero reports whether the amount is less than one cent away from zero.
// With integer cents that is exact equality, but callers use this predicate
// wherever a balance or transfer is tested for completion.
func (m Money) EffectivelyZero() bool {
	return m.Abs() < 1
}

// EffectivelyEqual reports whether the difference between two amounts is
// strictly less than one cent.
func (m Money) EffectivelyEqual(o Money) bool {
	return m.Sub(o).EffectivelyZero()
}

// IsPositive reports whether the amount is at least one cent above zero.
func (m Money) IsPositive() bool {
	return m >= 1
}

// IsNegative reports whether the amount is at least one cent below zero.
func (m Money) IsNegative() bool {
	return m <= -1
}

// Share divides the amount among n people, rounding the per-person share
// to the nearest cent with halves rounded away from zero.
func (m Money) Share(n int) (Money, error) {
	if n < 1 {
		return Zero, ErrInvalidSplit
	}
	abs := m.Abs().Cents()
	q, r := abs/int64(n), abs%int64(n)
	if 2*r >= int64(n) {
		q++
	}
	if m < 0 {
		q = -q
	}
	return Money(q), nil
}

// MarshalJSON encodes the amount as a quoted decimal string, e.g. "33.33".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value stores the amount as integer cents.
func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

// Scan reads integer cents.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*m = Money(v)
	case nil:
		*m = Zero
	default:
		return fmt.Errorf("cannot scan %T into money.Money", src)
	}
	return nil
}
