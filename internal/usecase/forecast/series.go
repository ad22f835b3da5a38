package forecast

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// MonthlyTotals aggregates one calendar month of transactions
type MonthlyTotals struct {
	Month    time.Time // first day of the month, in now's location
	Spending decimal.Decimal
	Income   decimal.Decimal
}

// SpendingTrend is a MonthlyTotals enriched for display
type SpendingTrend struct {
	Month             time.Time
	Label             string // e.g. "Mar 2025"
	Spending          decimal.Decimal
	Income            decimal.Decimal
	NetFlow           decimal.Decimal
	BudgetUtilization float64 // spending as a percentage of income
}

// MonthlySeries sums spending (expense magnitudes) and income over the last
// months calendar months ending with now's month, oldest first.
// Transaction dates are compared in now's location.
func MonthlySeries(transactions []*domain.Transaction, months int, now time.Time) []MonthlyTotals {
	if months <= 0 {
		return nil
	}

	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)

	series := make([]MonthlyTotals, months)
	for i := range series {
		series[i] = MonthlyTotals{
			Month:    start.AddDate(0, i, 0),
			Spending: decimal.Zero,
			Income:   decimal.Zero,
		}
	}

	for _, tx := range transactions {
		d := tx.Date.In(loc)
		idx := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
		if idx < 0 || idx >= months {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeExpense:
			series[idx].Spending = series[idx].Spending.Add(tx.Magnitude())
		case domain.TransactionTypeIncome:
			series[idx].Income = series[idx].Income.Add(tx.Amount)
		}
	}

	return series
}

// SpendingTrends returns the monthly series with net flow and the share of
// income spent. With no income the spending is compared against 1 unit.
func SpendingTrends(transactions []*domain.Transaction, months int, now time.Time) []SpendingTrend {
	series := MonthlySeries(transactions, months, now)
	trends := make([]SpendingTrend, 0, len(series))

	for _, m := range series {
		utilization := 0.0
		if m.Spending.IsPositive() {
			base := m.Income
			if base.IsZero() {
				base = decimal.NewFromInt(1)
			}
			utilization = m.Spending.Div(base).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}

		trends = append(trends, SpendingTrend{
			Month:             m.Month,
			Label:             m.Month.Format("Jan 2006"),
			Spending:          m.Spending,
			Income:            m.Income,
			NetFlow:           m.Income.Sub(m.Spending),
			BudgetUtilization: utilization,
		})
	}

	return trends
}

// Predict is PredictNextMonth over the last six months of transactions
func Predict(transactions []*domain.Transaction, now time.Time) Prediction {
	return PredictNextMonth(MonthlySeries(transactions, 6, now), now)
}

// SpendingValues extracts the spending column of a series as floats
func SpendingValues(series []MonthlyTotals) []float64 {
	values := make([]float64, len(series))
	for i, m := range series {
		values[i] = m.Spending.InexactFloat64()
	}
	return values
}
