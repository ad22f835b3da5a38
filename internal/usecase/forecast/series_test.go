package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

func tx(kind domain.TransactionType, amount int64, date time.Time) *domain.Transaction {
	t := &domain.Transaction{
		Amount:      decimal.NewFromInt(amount),
		Category:    "General",
		Description: "test",
		Date:        date,
		Type:        kind,
	}
	t.NormalizeAmount()
	return t
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeExpense, 100, time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)),
		tx(domain.TransactionTypeExpense, 50, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)),
		tx(domain.TransactionTypeIncome, 2000, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)),
		tx(domain.TransactionTypeExpense, 70, time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)),
		// outside the three month window
		tx(domain.TransactionTypeExpense, 999, time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC)),
	}

	series := MonthlySeries(txs, 3, now)

	require.Len(t, series, 3)
	assert.Equal(t, time.December, series[0].Month.Month())
	assert.Equal(t, 2024, series[0].Month.Year())
	assert.Equal(t, time.February, series[2].Month.Month())

	assert.True(t, series[0].Spending.Equal(decimal.NewFromInt(70)))
	assert.True(t, series[1].Income.Equal(decimal.NewFromInt(2000)))
	assert.True(t, series[1].Spending.IsZero())
	assert.True(t, series[2].Spending.Equal(decimal.NewFromInt(150)))
}

func TestSpendingTrends(t *testing.T) {
	now := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeIncome, 4000, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
		tx(domain.TransactionTypeExpense, 1000, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)),
		tx(domain.TransactionTypeExpense, 30, time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)),
	}

	trends := SpendingTrends(txs, 2, now)

	require.Len(t, trends, 2)

	feb := trends[0]
	assert.Equal(t, "Feb 2025", feb.Label)
	// no income: spending is compared to a single unit
	assert.InDelta(t, 3000.0, feb.BudgetUtilization, 1e-9)
	assert.True(t, feb.NetFlow.Equal(decimal.NewFromInt(-30)))

	mar := trends[1]
	assert.Equal(t, "Mar 2025", mar.Label)
	assert.InDelta(t, 25.0, mar.BudgetUtilization, 1e-9)
	assert.True(t, mar.NetFlow.Equal(decimal.NewFromInt(3000)))
}

func TestSpendingTrends_NoSpendingHasZeroUtilization(t *testing.T) {
	now := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	trends := SpendingTrends(nil, 6, now)

	require.Len(t, trends, 6)
	for _, tr := range trends {
		assert.Equal(t, 0.0, tr.BudgetUtilization)
	}
}

func TestPredict_UsesSixMonths(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	p := Predict(nil, now)

	assert.False(t, p.InsufficientData, "six empty months is still a full series")
	assert.True(t, p.NextMonthSpending.IsZero())
	assert.Equal(t, 0.0, p.Confidence)
}
