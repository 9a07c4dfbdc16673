package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in a single currency.
// Combining two different currencies is a programming error and panics.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

func MustParseMoney(amount, currency string) Money {
	return NewMoney(decimal.RequireFromString(amount), currency)
}

func Zero(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) mustMatch(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("payment: currency mismatch %s vs %s", m.Currency, other.Currency))
	}
}

func (m Money) Add(other Money) Money {
	m.mustMatch(other)
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

func (m Money) Sub(other Money) Money {
	m.mustMatch(other)
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

func (m Money) Cmp(other Money) int {
	m.mustMatch(other)
	return m.Amount.Cmp(other.Amount)
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Round uses banker's rounding to two decimals.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.RoundBank(2), Currency: m.Currency}
}

// MinorUnits returns the amount in cents/öre as used by card providers.
func (m Money) MinorUnits() int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}

// StringFixed formats the amount with two decimals, e.g. "100.00".
func (m Money) StringFixed() string {
	return m.Amount.StringFixed(2)
}

func (m Money) String() string {
	return m.StringFixed() + " " + m.Currency
}
