package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

func budgetWith(limit, spent int64) *domain.Budget {
	return &domain.Budget{Category: "X", Limit: decimal.NewFromInt(limit), Spent: decimal.NewFromInt(spent), Period: domain.BudgetPeriodMonthly}
}

func TestBudgetCompliance(t *testing.T) {
	tests := []struct {
		name    string
		budgets []*domain.Budget
		want    float64
	}{
		{name: "No budgets", budgets: nil, want: 100},
		{name: "All within limit", budgets: []*domain.Budget{budgetWith(100, 100), budgetWith(100, 10)}, want: 100},
		{name: "One over by 50 percent", budgets: []*domain.Budget{budgetWith(100, 150), budgetWith(100, 0)}, want: 75},
		{name: "Way over floors at zero", budgets: []*domain.Budget{budgetWith(100, 350)}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BudgetCompliance(tt.budgets), 1e-9)
		})
	}
}

func TestSavingsRate(t *testing.T) {
	assert.Equal(t, 0.0, SavingsRate(nil))

	txs := []*domain.Transaction{
		{Amount: decimal.NewFromInt(4000), Type: domain.TransactionTypeIncome},
		{Amount: decimal.NewFromInt(-3000), Type: domain.TransactionTypeExpense},
	}
	assert.InDelta(t, 25.0, SavingsRate(txs), 1e-9)
}

func TestFinancialHealth(t *testing.T) {
	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	var txs []*domain.Transaction
	for i := 0; i < 6; i++ {
		month := now.AddDate(0, -i, 0)
		txs = append(txs,
			&domain.Transaction{Amount: decimal.NewFromInt(5000), Type: domain.TransactionTypeIncome, Date: month},
			&domain.Transaction{Amount: decimal.NewFromInt(-4000), Type: domain.TransactionTypeExpense, Category: "Rent", Date: month},
		)
	}
	goals := []*domain.Goal{{Target: decimal.NewFromInt(100), Current: decimal.NewFromInt(30)}}
	budgets := []*domain.Budget{budgetWith(100, 150)}

	h := FinancialHealth(txs, budgets, goals, now)

	assert.Equal(t, 50.0, h.BudgetCompliance)
	assert.Equal(t, 20.0, h.SavingsRate)
	assert.Equal(t, 30.0, h.GoalProgress)
	assert.Equal(t, 100.0, h.SpendingStability)
	// (15 + 20 + 6 + 20) / 1.7 = 35.88
	assert.Equal(t, 36.0, h.Overall)

	assert.Equal(t, []string{"Budget compliance needs improvement", "Goal progress is behind target"}, h.Insights)
	assert.Len(t, h.Recommendations, 2)
}

func TestFinancialHealth_EmptyState(t *testing.T) {
	h := FinancialHealth(nil, nil, nil, time.Now())

	assert.Equal(t, 100.0, h.BudgetCompliance)
	assert.Equal(t, 0.0, h.SavingsRate)
	assert.Equal(t, 100.0, h.GoalProgress)
	assert.Equal(t, 0.0, h.SpendingStability)
	assert.Equal(t, []string{"Low savings rate detected"}, h.Insights)
}
