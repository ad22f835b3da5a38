package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod is the window a budget limit applies to
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
)

// BudgetLevel is the coarse utilization level of a budget
type BudgetLevel string

const (
	BudgetLevelUnder BudgetLevel = "under"
	BudgetLevelNear  BudgetLevel = "near"
	BudgetLevelOver  BudgetLevel = "over"
)

// Utilization thresholds (percent) used by Budget.Level
const (
	NearLimitUtilization = 80.0
	OverLimitUtilization = 100.0
)

// Budget caps the spending of a single category over a period.
// Spent is accumulated by the caller when a matching expense is recorded;
// it is never derived from transactions here.
type Budget struct {
	ID       uuid.UUID
	Category string // unique among active budgets
	Limit    decimal.Decimal
	Spent    decimal.Decimal
	Period   BudgetPeriod
	Color    string
}

// Validate ensures the budget adheres to domain rules
func (b *Budget) Validate() error {
	if b.Category == "" {
		return fmt.Errorf("%w: budget category cannot be empty", ErrInvalidInput)
	}
	if b.Limit.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: budget limit must be positive", ErrInvalidInput)
	}
	if !fitsPlaces(b.Limit, MoneyPlaces) {
		return fmt.Errorf("%w: budget limit cannot have more than %d decimal places", ErrInvalidInput, MoneyPlaces)
	}
	switch b.Period {
	case BudgetPeriodMonthly, BudgetPeriodWeekly:
	default:
		return fmt.Errorf("%w: budget period must be monthly or weekly", ErrInvalidInput)
	}
	return nil
}

// Remaining returns limit - spent. Positive means under budget.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Limit.Sub(b.Spent)
}

// UtilizationRate returns spent / limit as a percentage
func (b *Budget) UtilizationRate() float64 {
	if b.Limit.IsZero() {
		return 0
	}
	return b.Spent.Div(b.Limit).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// Level classifies the utilization rate as under, near or over the limit
func (b *Budget) Level() BudgetLevel {
	rate := b.UtilizationRate()
	switch {
	case rate >= OverLimitUtilization:
		return BudgetLevelOver
	case rate >= NearLimitUtilization:
		return BudgetLevelNear
	default:
		return BudgetLevelUnder
	}
}
