// Package currency renders decimal amounts as localized money strings.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCode is used when no currency is configured
const DefaultCode = money.USD

// Format renders amount in the given ISO 4217 currency, e.g. "$1,234.50".
// Unknown codes fall back to DefaultCode.
func Format(amount decimal.Decimal, code string) string {
	cur := lookup(code)
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// Signed is Format with an explicit "+" on positive amounts
func Signed(amount decimal.Decimal, code string) string {
	if amount.IsPositive() {
		return "+" + Format(amount, code)
	}
	return Format(amount, code)
}

// Valid reports whether code is a known currency
func Valid(code string) bool {
	return money.GetCurrency(code) != nil
}

func lookup(code string) money.Currency {
	if money.GetCurrency(code) == nil {
		code = DefaultCode
	}
	// money.New never returns a nil currency
	return *money.New(0, code).Currency()
}
