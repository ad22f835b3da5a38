package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/forecast"
)

func monthlyBudget(category string, limit, spent int64) *domain.Budget {
	return &domain.Budget{
		Category: category,
		Limit:    decimal.NewFromInt(limit),
		Spent:    decimal.NewFromInt(spent),
		Period:   domain.BudgetPeriodMonthly,
	}
}

func expense(category string, amount int64, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		Amount:   decimal.NewFromInt(-amount),
		Category: category,
		Date:     date,
		Type:     domain.TransactionTypeExpense,
	}
}

func TestEvaluate_Status(t *testing.T) {
	// April has 30 days; 70% elapsed is day 21
	early := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, time.April, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		spent  int64
		now    time.Time
		status Status
		level  domain.BudgetLevel
	}{
		{name: "Over budget", spent: 101, now: early, status: StatusOverBudget, level: domain.BudgetLevelOver},
		{name: "Exactly at limit stays on track", spent: 100, now: late, status: StatusOnTrack, level: domain.BudgetLevelOver},
		{name: "Near limit", spent: 85, now: early, status: StatusOnTrack, level: domain.BudgetLevelNear},
		{name: "Low spend early in the month", spent: 10, now: early, status: StatusOnTrack, level: domain.BudgetLevelUnder},
		{name: "Low spend late in the month", spent: 10, now: late, status: StatusUnderUtilized, level: domain.BudgetLevelUnder},
		{name: "Half spent late in the month", spent: 50, now: late, status: StatusOnTrack, level: domain.BudgetLevelUnder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := monthlyBudget("Dining", 100, tt.spent)
			perf := Evaluate(b, tt.now)

			assert.Equal(t, tt.status, perf.Status)
			assert.Equal(t, tt.level, perf.Level)
			assert.True(t, perf.Remaining.Equal(decimal.NewFromInt(100-tt.spent)))
		})
	}
}

func TestEvaluate_Projection(t *testing.T) {
	now := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	perf := Evaluate(monthlyBudget("Groceries", 600, 200), now)

	// 200 over 10 days, 30 day month
	assert.True(t, perf.ProjectedSpend.Equal(decimal.NewFromInt(600)), "got %s", perf.ProjectedSpend)
	assert.Equal(t, 20, perf.DaysRemaining)
}

func TestEvaluate_WeeklyPeriodStartsMonday(t *testing.T) {
	b := &domain.Budget{Category: "Coffee", Limit: decimal.NewFromInt(35), Spent: decimal.NewFromInt(5), Period: domain.BudgetPeriodWeekly}

	// 2025-04-13 is a Sunday: the last day of the week
	sunday := time.Date(2025, time.April, 13, 0, 0, 0, 0, time.UTC)
	perf := Evaluate(b, sunday)
	assert.Equal(t, 0, perf.DaysRemaining)
	assert.Equal(t, StatusUnderUtilized, perf.Status)

	monday := time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC)
	perf = Evaluate(b, monday)
	assert.Equal(t, 6, perf.DaysRemaining)
	assert.Equal(t, StatusOnTrack, perf.Status)
	assert.True(t, perf.ProjectedSpend.Equal(decimal.NewFromInt(35)))
}

func TestAnalyzeCategories(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	txs := []*domain.Transaction{
		// Listed newest first, as repositories return them
		expense("Dining", 90, base.AddDate(0, 0, 6)),
		expense("Dining", 90, base.AddDate(0, 0, 5)),
		expense("Dining", 90, base.AddDate(0, 0, 4)),
		expense("Dining", 30, base.AddDate(0, 0, 3)),
		expense("Dining", 30, base.AddDate(0, 0, 2)),
		expense("Rent", 1200, base),
		expense("Books", 15, base),
		{Amount: decimal.NewFromInt(5000), Category: "Salary", Date: base, Type: domain.TransactionTypeIncome},
	}
	budgets := []*domain.Budget{monthlyBudget("Dining", 400, 0), monthlyBudget("Rent", 1000, 0)}

	got := AnalyzeCategories(txs, budgets)

	require.Len(t, got, 3)
	assert.Equal(t, "Rent", got[0].Category)
	assert.Equal(t, "Dining", got[1].Category)
	assert.Equal(t, "Books", got[2].Category)

	rent := got[0]
	assert.True(t, rent.Variance.Equal(decimal.NewFromInt(-200)))
	assert.InDelta(t, -20.0, rent.VariancePercentage, 1e-9)

	dining := got[1]
	assert.True(t, dining.TotalSpent.Equal(decimal.NewFromInt(330)))
	assert.Equal(t, 5, dining.Transactions)
	assert.True(t, dining.AverageTransaction.Equal(decimal.NewFromInt(66)))
	assert.Equal(t, forecast.TrendIncreasing, dining.Trend)

	books := got[2]
	assert.True(t, books.BudgetAllocated.IsZero())
	assert.Equal(t, 0.0, books.VariancePercentage)
	assert.Equal(t, forecast.TrendStable, books.Trend, "no earlier expenses to compare with")
}

func TestSuggest(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	txs := []*domain.Transaction{
		expense("Travel", 650, base),
		expense("Gym", 10, base),
		expense("Gym", 10, base),
	}
	budgets := []*domain.Budget{
		monthlyBudget("Travel", 500, 650),
		monthlyBudget("Gym", 200, 20),
		monthlyBudget("Fuel", 100, 0),
	}

	got := Suggest(txs, budgets, "USD")

	require.Len(t, got, 3)

	// reduce: 150, split: 650 * 0.2 = 130, reallocate: 180 * 0.5 = 90
	assert.Equal(t, SuggestionReduce, got[0].Kind)
	assert.True(t, got[0].PotentialSavings.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "Reduce Travel spending by $150.00 to meet budget", got[0].Message)

	assert.Equal(t, SuggestionSplit, got[1].Kind)
	assert.True(t, got[1].PotentialSavings.Equal(decimal.NewFromInt(130)))

	assert.Equal(t, SuggestionReallocate, got[2].Kind)
	assert.Equal(t, "Gym", got[2].Category)
	assert.True(t, got[2].PotentialSavings.Equal(decimal.NewFromInt(90)))
}

func TestTotal(t *testing.T) {
	totals := Total([]*domain.Budget{monthlyBudget("A", 100, 30), monthlyBudget("B", 50, 70)})

	assert.True(t, totals.Budgeted.Equal(decimal.NewFromInt(150)))
	assert.True(t, totals.Spent.Equal(decimal.NewFromInt(100)))
	assert.True(t, totals.Remaining.Equal(decimal.NewFromInt(50)))
}
