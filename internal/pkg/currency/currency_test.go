package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		code   string
		want   string
	}{
		{name: "Dollars with grouping", amount: decimal.NewFromFloat(1234.5), code: "USD", want: "$1,234.50"},
		{name: "Rounds to cents", amount: decimal.NewFromFloat(10.005), code: "USD", want: "$10.01"},
		{name: "Negative", amount: decimal.NewFromInt(-42), code: "USD", want: "-$42.00"},
		{name: "Unknown code falls back", amount: decimal.NewFromInt(3), code: "???", want: "$3.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.amount, tt.code))
		})
	}
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+$5.00", Signed(decimal.NewFromInt(5), "USD"))
	assert.Equal(t, "-$5.00", Signed(decimal.NewFromInt(-5), "USD"))
	assert.True(t, Valid("EUR"))
	assert.False(t, Valid("XYZ1"))
}
