package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable monetary amount in a single currency.
// Amounts are kept at full precision internally; rounding to 2 decimal
// places (half-up) happens once at the final result, never on intermediate
// steps.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// Display is the presentation form of an amount: the raw 2dp value, the
// formatted string with currency symbol and the currency code itself.
type Display struct {
	Amount          decimal.Decimal `json:"amount"`
	AmountFormatted string          `json:"amount_formatted"`
	Currency        string          `json:"currency"`
	Symbol          string          `json:"symbol"`
}

// symbols maps ISO currency codes to display symbols. Unknown codes fall
// back to the code itself.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"NGN": "₦",
	"KES": "KSh",
	"ZAR": "R",
	"BWP": "P",
}

func New(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: strings.ToUpper(currency)}
}

func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: strings.ToUpper(currency)}
}

// Amount returns the value rounded half-up to 2 decimal places.
func (m Money) Amount() decimal.Decimal {
	return m.amount.Round(2)
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.Amount().IsZero()
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}
}

// Symbol returns the display symbol for the currency.
func (m Money) Symbol() string {
	if s, ok := symbols[m.currency]; ok {
		return s
	}
	return m.currency
}

// Format builds the display-ready value object.
func (m Money) Format() Display {
	amount := m.Amount()
	return Display{
		Amount:          amount,
		AmountFormatted: fmt.Sprintf("%s%s", m.Symbol(), amount.StringFixed(2)),
		Currency:        m.currency,
		Symbol:          m.Symbol(),
	}
}

func (m Money) String() string {
	return m.Format().AmountFormatted
}

// Percentage is a display-ready percentage value.
type Percentage struct {
	Value decimal.Decimal `json:"value"`
}

func NewPercentage(value decimal.Decimal) Percentage {
	return Percentage{Value: value}
}

// Format renders the percentage without trailing zeros, e.g. "20%".
func (p Percentage) Format() string {
	return p.Value.Round(2).String() + "%"
}
