package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/Zhima-Mochi/minishop-payorder/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

var (
	ErrInvalidValue     = domain.NewError(domain.CodeInvalidMoneyValue, "Amount cannot be negative")
	ErrCurrencyMismatch = errors.New("money: cannot combine different currencies")
)

// Money is an immutable amount in a single currency.
// The zero value is not valid; use New, Zero or one of the parsing helpers.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func New(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrInvalidValue
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustNew parses amount like FromString and panics on failure. Intended for literals.
func MustNew(amount string, currency string) Money {
	m, err := FromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func Zero(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: decimal.Zero, currency: currency}
}

// FromString parses a decimal literal such as "10.50".
func FromString(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse %q: %w", amount, err)
	}
	return New(d, currency)
}

// FromFloat converts through the shortest textual form of f so that 100.50
// becomes exactly 100.5 rather than its nearest binary approximation.
func FromFloat(amount float64, currency string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidValue, amount)
	}
	return FromString(strconv.FormatFloat(amount, 'f', -1, 64), currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() string { return m.currency }

func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Times multiplies by a non-negative integer and therefore cannot fail.
func (m Money) Times(n uint) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))), currency: m.currency}
}

// Scale multiplies by an arbitrary decimal; a negative result is rejected.
func (m Money) Scale(multiplier decimal.Decimal) (Money, error) {
	return New(m.amount.Mul(multiplier), m.currency)
}

// Equal reports structural equality: same currency and numerically equal amount.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders "<currency> <amount>" with two decimal places, rounding half to even.
func (m Money) String() string {
	return m.currency + " " + m.amount.StringFixedBank(2)
}
