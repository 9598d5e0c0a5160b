// Package money provides an exact fixed-point amount type for ledger
// arithmetic. Amounts always carry two decimal places; anything with more
// precision than the account currency supports is rejected up front so
// rounding never happens silently inside the transfer path.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places the ledger currency supports.
const Scale = 2

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is an exact decimal monetary value. The zero value is 0.00.
type Amount struct {
	d decimal.Decimal
}

// Parse builds an Amount from its string form. It fails with
// ErrInvalidAmount when the input is not a finite decimal number or
// carries more than Scale fractional digits.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is Parse for test fixtures and constants; it panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal validates an existing decimal against the currency scale.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.Exponent() < -Scale {
		return Amount{}, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, Scale)
	}
	return Amount{d: d}, nil
}

func Zero() Amount { return Amount{} }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Cmp returns -1, 0 or 1 comparing a against b.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool    { return a.d.Cmp(b.d) == 0 }
func (a Amount) LessThan(b Amount) bool { return a.d.Cmp(b.d) < 0 }

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a.d.IsPositive() }

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

// Neg returns -a. Used to sign debit legs when summing a ledger.
func (a Amount) Neg() Amount { return Amount{d: a.d.Neg()} }

// String renders with exactly Scale decimal places, e.g. "1500.00".
func (a Amount) String() string { return a.d.StringFixed(Scale) }

// Decimal exposes the underlying value for storage drivers.
func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
