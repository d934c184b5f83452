package money

import (
	"math"
	"testing"

	"github.com/Zhima-Mochi/minishop-payorder/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNew(t *testing.T) {
	m, err := New(dec("100.50"), "USD")
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(dec("100.50")))
	assert.Equal(t, "USD", m.Currency())

	m, err = New(dec("1"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, m.Currency())

	_, err = New(dec("-0.01"), "USD")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)

	derr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidMoneyValue, derr.Code)
}

func TestAdd(t *testing.T) {
	a := MustNew("100.00", "USD")
	b := MustNew("50.50", "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equal(MustNew("150.50", "USD")))
	assert.True(t, a.Equal(MustNew("100", "USD")), "operands must not change")

	_, err = a.Add(MustNew("1", "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestAddCommutativeAndAssociative(t *testing.T) {
	values := []Money{
		MustNew("0", "USD"),
		MustNew("0.01", "USD"),
		MustNew("15.50", "USD"),
		MustNew("7.25", "USD"),
		MustNew("123456789.987654321", "USD"),
	}

	for _, a := range values {
		for _, b := range values {
			ab, err := a.Add(b)
			require.NoError(t, err)
			ba, err := b.Add(a)
			require.NoError(t, err)
			assert.True(t, ab.Equal(ba), "%s + %s", a, b)

			for _, c := range values {
				left, _ := ab.Add(c)
				bc, _ := b.Add(c)
				right, _ := a.Add(bc)
				assert.True(t, left.Equal(right), "(%s + %s) + %s", a, b, c)
			}
		}
	}
}

func TestTimesAndScale(t *testing.T) {
	m := MustNew("10.00", "USD")

	assert.True(t, m.Times(3).Equal(MustNew("30.00", "USD")))
	assert.True(t, m.Times(0).IsZero())

	half, err := m.Scale(dec("0.5"))
	require.NoError(t, err)
	assert.True(t, half.Equal(MustNew("5", "USD")))

	_, err = m.Scale(dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFromFloat(t *testing.T) {
	m, err := FromFloat(100.50, "USD")
	require.NoError(t, err)
	assert.True(t, m.Equal(MustNew("100.50", "USD")))
	assert.Equal(t, "100.5", m.Amount().String())

	m, err = FromFloat(0.1, "USD")
	require.NoError(t, err)
	assert.Equal(t, "0.1", m.Amount().String())

	_, err = FromFloat(-3.5, "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = FromFloat(math.NaN(), "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = FromFloat(math.Inf(1), "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFromStringRejectsGarbage(t *testing.T) {
	_, err := FromString("ten", "USD")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidValue)
}

func TestString(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"20", "USD 20.00"},
		{"52.75", "USD 52.75"},
		{"0", "USD 0.00"},
		{"1.005", "USD 1.00"},
		{"1.015", "USD 1.02"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, MustNew(tt.amount, "USD").String())
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, MustNew("10.0", "USD").Equal(MustNew("10.00", "USD")))
	assert.False(t, MustNew("10", "USD").Equal(MustNew("10", "EUR")))
	assert.True(t, Zero("").Equal(MustNew("0", "USD")))
}
