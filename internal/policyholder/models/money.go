package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	dErrors "policyhub/pkg/domain-errors"
)

// DefaultCurrency is used when no currency code is supplied.
const DefaultCurrency = "TWD"

// Amounts are stored as NUMERIC(19,2): at most two fractional digits and
// seventeen integer digits.
const moneyScale = 2

var moneyLimit = decimal.New(1, 17)

// Money is a non-negative amount in a single currency.
// Arithmetic across currencies is a programming error and reported as an invariant violation.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates amount and currency. An empty currency selects DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if !isCurrencyCode(currency) {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "invalid currency code %q: expected 3 upper-case letters", currency)
	}
	if amount.IsNegative() {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "amount cannot be negative: %s", amount.String())
	}
	if err := checkStorable(amount); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// ParseMoney parses a decimal string such as "10000.50".
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "invalid amount %q", amount)
	}
	return NewMoney(d, currency)
}

// RestoreMoney rebuilds a stored amount without validation.
func RestoreMoney(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

// Equal compares by value; 10 and 10.00 in the same currency are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	sum := m.amount.Add(other.amount)
	if err := checkStorable(sum); err != nil {
		return Money{}, err
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract fails when the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "cannot subtract %s from %s: result would be negative", other, m)
	}
	return Money{amount: result, currency: m.currency}, nil
}

// Compare returns -1, 0 or 1.
func (m Money) Compare(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c > 0, err
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c < 0, err
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("currency mismatch: %s vs %s", m.currency, other.currency))
	}
	return nil
}

func checkStorable(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(moneyScale)) {
		return dErrors.Newf(dErrors.CodeValidation, "amount %s has more than %d decimal places", amount.String(), moneyScale)
	}
	if amount.Abs().GreaterThanOrEqual(moneyLimit) {
		return dErrors.Newf(dErrors.CodeValidation, "amount %s is too large", amount.String())
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
