package booking

import (
	"github.com/shopspring/decimal"
)

// Money is a non-negative currency amount. Arithmetic stays in decimal so that
// refund splits never drift through float rounding.
type Money struct {
	amount decimal.Decimal
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: d}, nil
}

func MustMoney(s string) Money {
	m, err := NewMoney(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub floors at zero.
func (m Money) Sub(other Money) Money {
	d := m.amount.Sub(other.amount)
	if d.IsNegative() {
		d = decimal.Zero
	}
	return Money{amount: d}
}

func (m Money) Equal(other Money) bool { return m.amount.Equal(other.amount) }

// String renders the amount with two decimal places.
func (m Money) String() string { return m.amount.StringFixed(2) }

type Party struct {
	Guests   int
	Children int
	Pets     int
}

func (p Party) Headcount() int {
	return p.Guests + p.Children
}
