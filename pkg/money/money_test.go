package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountRoundsHalfUpToTwoPlaces(t *testing.T) {
	m := New(decimal.RequireFromString("10.005"), "USD")
	assert.Equal(t, "10.01", m.Amount().StringFixed(2))

	m = New(decimal.RequireFromString("10.004"), "USD")
	assert.Equal(t, "10.00", m.Amount().StringFixed(2))
}

func TestIntermediatePrecisionIsPreserved(t *testing.T) {
	a := New(decimal.RequireFromString("0.004"), "USD")
	b := New(decimal.RequireFromString("0.004"), "USD")

	// Each addend rounds to 0.00 on its own; the sum must not.
	sum := a.Add(b)
	assert.Equal(t, "0.01", sum.Amount().StringFixed(2))
}

func TestFormatUsesCurrencySymbol(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"20.00", "USD", "$20.00"},
		{"20.00", "EUR", "€20.00"},
		{"1500.50", "NGN", "₦1500.50"},
		{"9.99", "GBP", "£9.99"},
	}

	for _, tt := range tests {
		m := New(decimal.RequireFromString(tt.amount), tt.currency)
		assert.Equal(t, tt.want, m.Format().AmountFormatted)
	}
}

func TestFormatUnknownCurrencyFallsBackToCode(t *testing.T) {
	m := New(decimal.RequireFromString("5.00"), "xyz")
	display := m.Format()

	assert.Equal(t, "XYZ", display.Currency)
	assert.Equal(t, "XYZ", display.Symbol)
	assert.Equal(t, "XYZ5.00", display.AmountFormatted)
}

func TestZero(t *testing.T) {
	m := Zero("USD")
	assert.True(t, m.IsZero())
	assert.Equal(t, "$0.00", m.String())
}

func TestSub(t *testing.T) {
	a := New(decimal.RequireFromString("100.00"), "USD")
	b := New(decimal.RequireFromString("20.00"), "USD")
	assert.Equal(t, "$80.00", a.Sub(b).String())
}

func TestPercentageFormat(t *testing.T) {
	assert.Equal(t, "20%", NewPercentage(decimal.RequireFromString("20")).Format())
	assert.Equal(t, "12.5%", NewPercentage(decimal.RequireFromString("12.50")).Format())
}
