package dashboard

import (
	"math"
	"time"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/forecast"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/transaction"
)

// HealthScore rates overall financial health. Every score is rounded to a whole number.
type HealthScore struct {
	Overall           float64
	BudgetCompliance  float64
	SavingsRate       float64
	GoalProgress      float64
	SpendingStability float64
	Insights          []string
	Recommendations   []string
}

// Insight thresholds
const (
	minCompliance   = 80.0
	minSavingsRate  = 10.0
	minGoalProgress = 50.0
)

// BudgetCompliance averages a per-budget score: 100 within the limit, then
// 200 - utilization down to 0. No budgets scores 100.
func BudgetCompliance(budgets []*domain.Budget) float64 {
	if len(budgets) == 0 {
		return 100
	}
	var sum float64
	for _, b := range budgets {
		u := b.UtilizationRate()
		if u <= domain.OverLimitUtilization {
			sum += 100
		} else {
			sum += math.Max(0, 200-u)
		}
	}
	return sum / float64(len(budgets))
}

// SavingsRate is (income - expenses) / income as a percentage, 0 without income
func SavingsRate(transactions []*domain.Transaction) float64 {
	totals := transaction.Sum(transactions)
	if !totals.Income.IsPositive() {
		return 0
	}
	return totals.Income.Sub(totals.Expenses).Div(totals.Income).Mul(hundred).InexactFloat64()
}

// FinancialHealth scores budgets, savings, goals and the steadiness of the
// last six months of spending.
// Logic:
//  1. Compliance, savings rate, goal progress and stability are computed independently
//  2. Overall = (0.3*compliance + savings + 0.2*progress + 0.2*stability) / 1.7
//  3. Each weak area adds an insight and a recommendation
func FinancialHealth(transactions []*domain.Transaction, budgets []*domain.Budget, goals []*domain.Goal, now time.Time) HealthScore {
	compliance := BudgetCompliance(budgets)
	savings := SavingsRate(transactions)
	progress := goal.Summarize(goals).Average
	stability := forecast.Stability(forecast.SpendingValues(forecast.MonthlySeries(transactions, 6, now)))

	overall := (compliance*0.3 + savings + progress*0.2 + stability*0.2) / 1.7

	h := HealthScore{
		Overall:           math.Round(overall),
		BudgetCompliance:  math.Round(compliance),
		SavingsRate:       math.Round(savings),
		GoalProgress:      math.Round(progress),
		SpendingStability: math.Round(stability),
		Insights:          []string{},
		Recommendations:   []string{},
	}

	if compliance < minCompliance {
		h.Insights = append(h.Insights, "Budget compliance needs improvement")
		h.Recommendations = append(h.Recommendations, "Review and adjust budget categories that are frequently exceeded")
	}
	if savings < minSavingsRate {
		h.Insights = append(h.Insights, "Low savings rate detected")
		h.Recommendations = append(h.Recommendations, "Aim to save at least 20% of your income for better financial health")
	}
	if progress < minGoalProgress {
		h.Insights = append(h.Insights, "Goal progress is behind target")
		h.Recommendations = append(h.Recommendations, "Increase monthly contributions or adjust goal timelines")
	}

	return h
}
