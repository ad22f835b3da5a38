package domain

import "github.com/shopspring/decimal"

// Decimal places kept by the NUMERIC(19, 4) and NUMERIC(24, 8) columns.
// Values with more places are rejected instead of being rounded on insert.
const (
	MoneyPlaces = 4
	SharePlaces = 8
)

// fitsPlaces reports whether d has at most places decimal places
func fitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
