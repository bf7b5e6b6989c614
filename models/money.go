package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a single currency. All internal math runs
// on decimals; formatting to floats happens only at the display boundary.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

func NewMoneyFromInt(amount int64, currency Currency) Money {
	return Money{Amount: decimal.NewFromInt(amount), Currency: currency}
}

// Round rounds half-up at the currency's minor-unit precision: whole
// guaraníes for PYG, two decimals for USD/EUR.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(m.Currency.DecimalPlaces()), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(m.Currency.DecimalPlaces()), m.Currency)
}
