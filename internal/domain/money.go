package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits every Money value carries.
const MoneyPlaces = 2

var (
	// ErrInvalidArgument indicates malformed, missing or non-positive input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidAmount indicates an amount that cannot be parsed or is not positive.
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrInvalidArgument)
)

// MaxMoneyIntegerDigits bounds the integer part of parsed amounts. It matches
// the numeric(19,2) balance column.
const MaxMoneyIntegerDigits = 17

const maxMoneyInputLen = 64

// Plain decimal notation only. Exponents would let a short input expand
// into an arbitrarily large number on rounding.
var moneyPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

var moneyCeiling = decimal.New(1, MaxMoneyIntegerDigits)

// ZeroMoney is the zero amount.
var ZeroMoney = Money{}

// Money is an immutable fixed-point amount with exactly two fractional digits.
//
// Values are rounded half away from zero on construction. The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

// NewMoney returns d rounded to two fractional digits.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.Round(MoneyPlaces)}
}

// MoneyFromCents returns the amount for the given number of minor units.
func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -MoneyPlaces)}
}

// ParseMoney parses a decimal string like "123.456" into 123.46.
//
// Exponent notation, inputs longer than 64 characters and amounts of 10^17 or
// more are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: amount is empty", ErrInvalidAmount)
	}

	if len(s) > maxMoneyInputLen || !moneyPattern.MatchString(s) {
		return Money{}, fmt.Errorf("%w: %.20q", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	m := NewMoney(d)
	if m.d.Abs().GreaterThanOrEqual(moneyCeiling) {
		return Money{}, fmt.Errorf("%w: amount exceeds %d integer digits", ErrInvalidAmount, MaxMoneyIntegerDigits)
	}

	return m, nil
}

// MustParseMoney is like ParseMoney but panics on error.
// It is meant for package level constants.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}

	return m
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d.Round(MoneyPlaces)
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return NewMoney(m.d.Add(o.d))
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return NewMoney(m.d.Sub(o.d))
}

// Mul returns m * factor rounded to two fractional digits.
func (m Money) Mul(factor decimal.Decimal) Money {
	return NewMoney(m.d.Mul(factor))
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.d.IsPositive() }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.d.IsZero() }

// Cmp returns -1, 0 or +1 depending on whether m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

// Equal reports whether m and o hold the same amount.
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

// GreaterThanOrEqual reports whether m >= o.
func (m Money) GreaterThanOrEqual(o Money) bool { return m.d.GreaterThanOrEqual(o.d) }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

// LessThanOrEqual reports whether m <= o.
func (m Money) LessThanOrEqual(o Money) bool { return m.d.LessThanOrEqual(o.d) }

// String returns the plain amount, e.g. "123.45".
func (m Money) String() string {
	return m.d.StringFixed(MoneyPlaces)
}

// Formatted returns the amount prefixed with the dollar sign, e.g. "$123.45".
func (m Money) Formatted() string {
	return "$" + m.String()
}

// MarshalJSON encodes the amount as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)

	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Value implements driver.Valuer for numeric columns.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for numeric columns.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}

	*m = NewMoney(d)

	return nil
}
