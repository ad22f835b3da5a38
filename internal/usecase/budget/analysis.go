package budget

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/pkg/currency"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/forecast"
)

// Status is the performance classification of a budget within its period
type Status string

const (
	StatusOnTrack       Status = "on-track"
	StatusOverBudget    Status = "over-budget"
	StatusUnderUtilized Status = "under-utilized"
)

const (
	// UnderUtilizedRate is the utilization (percent) below which a budget may be under-utilized
	UnderUtilizedRate = 50.0
	// UnderUtilizedElapsed is the share of the period that must have elapsed
	// before a low utilization counts as under-utilized
	UnderUtilizedElapsed = 0.7
)

var hundred = decimal.NewFromInt(100)

// Performance is the state of one budget at a point of its period
type Performance struct {
	BudgetID        uuid.UUID
	Category        string
	Period          domain.BudgetPeriod
	Allocated       decimal.Decimal
	Spent           decimal.Decimal
	Remaining       decimal.Decimal // positive = under budget
	UtilizationRate float64
	Level           domain.BudgetLevel
	Status          Status
	ProjectedSpend  decimal.Decimal // spent extrapolated to the full period
	DaysRemaining   int
}

// periodProgress returns the elapsed days (today included) and the length of
// the period containing now. Weekly periods start on Monday.
func periodProgress(period domain.BudgetPeriod, now time.Time) (elapsed, length int) {
	if period == domain.BudgetPeriodWeekly {
		wd := int(now.Weekday())
		if wd == 0 {
			wd = 7
		}
		return wd, 7
	}
	firstOfNext := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	return now.Day(), firstOfNext.AddDate(0, 0, -1).Day()
}

// Evaluate computes the performance of a single budget at now
func Evaluate(b *domain.Budget, now time.Time) Performance {
	elapsed, length := periodProgress(b.Period, now)
	utilization := b.UtilizationRate()

	status := StatusOnTrack
	switch {
	case utilization > domain.OverLimitUtilization:
		status = StatusOverBudget
	case utilization < UnderUtilizedRate && float64(elapsed) >= float64(length)*UnderUtilizedElapsed:
		status = StatusUnderUtilized
	}

	projected := b.Spent.Div(decimal.NewFromInt(int64(elapsed))).Mul(decimal.NewFromInt(int64(length)))

	return Performance{
		BudgetID:        b.ID,
		Category:        b.Category,
		Period:          b.Period,
		Allocated:       b.Limit,
		Spent:           b.Spent,
		Remaining:       b.Remaining(),
		UtilizationRate: utilization,
		Level:           b.Level(),
		Status:          status,
		ProjectedSpend:  projected.Round(2),
		DaysRemaining:   length - elapsed,
	}
}

// EvaluateAll computes Evaluate for every budget, preserving order
func EvaluateAll(budgets []*domain.Budget, now time.Time) []Performance {
	out := make([]Performance, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, Evaluate(b, now))
	}
	return out
}

// CategoryAnalysis summarizes the expenses of one category against its budget
type CategoryAnalysis struct {
	Category           string
	TotalSpent         decimal.Decimal
	BudgetAllocated    decimal.Decimal // zero when the category has no budget
	Variance           decimal.Decimal // allocated - spent
	VariancePercentage float64
	Trend              forecast.TrendDirection
	Transactions       int
	AverageTransaction decimal.Decimal
}

// recentWindow is the number of latest expenses compared against the earlier ones
const recentWindow = 3

// AnalyzeCategories groups expenses by category and compares each group with
// its budget. The trend compares the mean of the three latest expenses with
// the mean of the earlier ones using a ±10% band; groups with no earlier
// expenses are stable. Results are sorted by total spent, highest first.
func AnalyzeCategories(transactions []*domain.Transaction, budgets []*domain.Budget) []CategoryAnalysis {
	expenses := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.IsExpense() {
			expenses = append(expenses, tx)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.Before(expenses[j].Date)
	})

	amounts := make(map[string][]decimal.Decimal)
	var order []string
	for _, tx := range expenses {
		if _, ok := amounts[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		amounts[tx.Category] = append(amounts[tx.Category], tx.Magnitude())
	}

	limits := make(map[string]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.Limit
	}

	out := make([]CategoryAnalysis, 0, len(order))
	for _, category := range order {
		values := amounts[category]
		total := decimal.Sum(decimal.Zero, values...)
		allocated, ok := limits[category]
		if !ok {
			allocated = decimal.Zero
		}
		variance := allocated.Sub(total)

		variancePct := 0.0
		if allocated.IsPositive() {
			variancePct = variance.Div(allocated).Mul(hundred).InexactFloat64()
		}

		out = append(out, CategoryAnalysis{
			Category:           category,
			TotalSpent:         total,
			BudgetAllocated:    allocated,
			Variance:           variance,
			VariancePercentage: variancePct,
			Trend:              recentTrend(values),
			Transactions:       len(values),
			AverageTransaction: total.Div(decimal.NewFromInt(int64(len(values)))).Round(2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
	})

	return out
}

func recentTrend(values []decimal.Decimal) forecast.TrendDirection {
	if len(values) <= recentWindow {
		return forecast.TrendStable
	}
	split := len(values) - recentWindow
	recent := decimal.Sum(decimal.Zero, values[split:]...).Div(decimal.NewFromInt(recentWindow))
	earlier := decimal.Sum(decimal.Zero, values[:split]...).Div(decimal.NewFromInt(int64(split)))

	switch {
	case recent.GreaterThan(earlier.Mul(decimal.NewFromFloat(1.1))):
		return forecast.TrendIncreasing
	case recent.LessThan(earlier.Mul(decimal.NewFromFloat(0.9))):
		return forecast.TrendDecreasing
	default:
		return forecast.TrendStable
	}
}

// SuggestionKind tells what a suggestion asks for
type SuggestionKind string

const (
	SuggestionReduce     SuggestionKind = "reduce"
	SuggestionReallocate SuggestionKind = "reallocate"
	SuggestionSplit      SuggestionKind = "split"
)

// Suggestion is an optimization hint for one budget
type Suggestion struct {
	Category         string
	Kind             SuggestionKind
	Message          string
	PotentialSavings decimal.Decimal
}

// Suggestion thresholds
const (
	ReduceAboveUtilization     = 120.0
	ReallocateBelowUtilization = 50.0
	LargeTransactionShare      = 0.3
)

// Suggest produces optimization hints per budget:
//   - utilization above 120%: reduce spending by the overrun
//   - utilization below 50% with some spending: reallocate half of the remainder
//   - average expense above 30% of the limit: split purchases, saving 20% of the average
//
// Suggestions are sorted by potential savings, highest first.
func Suggest(transactions []*domain.Transaction, budgets []*domain.Budget, currencyCode string) []Suggestion {
	counts := make(map[string]int)
	for _, tx := range transactions {
		if tx.IsExpense() {
			counts[tx.Category]++
		}
	}

	var out []Suggestion
	for _, b := range budgets {
		utilization := b.UtilizationRate()
		count := counts[b.Category]
		if count < 1 {
			count = 1
		}
		avg := b.Spent.Div(decimal.NewFromInt(int64(count)))

		switch {
		case utilization > ReduceAboveUtilization:
			overrun := b.Spent.Sub(b.Limit)
			out = append(out, Suggestion{
				Category:         b.Category,
				Kind:             SuggestionReduce,
				Message:          fmt.Sprintf("Reduce %s spending by %s to meet budget", b.Category, currency.Format(overrun, currencyCode)),
				PotentialSavings: overrun,
			})
		case utilization < ReallocateBelowUtilization && b.Spent.IsPositive():
			amount := b.Remaining().Mul(decimal.NewFromFloat(0.5))
			out = append(out, Suggestion{
				Category:         b.Category,
				Kind:             SuggestionReallocate,
				Message:          fmt.Sprintf("Consider reallocating %s from under-utilized %s budget", currency.Format(amount, currencyCode), b.Category),
				PotentialSavings: amount,
			})
		}

		if avg.GreaterThan(b.Limit.Mul(decimal.NewFromFloat(LargeTransactionShare))) {
			out = append(out, Suggestion{
				Category:         b.Category,
				Kind:             SuggestionSplit,
				Message:          fmt.Sprintf("High average transaction amount (%s) in %s. Consider breaking into smaller purchases", currency.Format(avg, currencyCode), b.Category),
				PotentialSavings: avg.Mul(decimal.NewFromFloat(0.2)).Round(2),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PotentialSavings.GreaterThan(out[j].PotentialSavings)
	})

	return out
}

// Totals aggregates limits and spending over all budgets
type Totals struct {
	Budgeted  decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// Total sums limit and spent across budgets
func Total(budgets []*domain.Budget) Totals {
	t := Totals{Budgeted: decimal.Zero, Spent: decimal.Zero}
	for _, b := range budgets {
		t.Budgeted = t.Budgeted.Add(b.Limit)
		t.Spent = t.Spent.Add(b.Spent)
	}
	t.Remaining = t.Budgeted.Sub(t.Spent)
	return t
}
