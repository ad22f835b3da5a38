package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalCategory groups savings goals
type GoalCategory string

const (
	GoalCategoryEmergency  GoalCategory = "emergency"
	GoalCategoryVacation   GoalCategory = "vacation"
	GoalCategoryHouse      GoalCategory = "house"
	GoalCategoryCar        GoalCategory = "car"
	GoalCategoryEducation  GoalCategory = "education"
	GoalCategoryRetirement GoalCategory = "retirement"
	GoalCategoryInvestment GoalCategory = "investment"
	GoalCategoryOther      GoalCategory = "other"
)

// GoalPriority ranks goals against each other
type GoalPriority string

const (
	GoalPriorityHigh   GoalPriority = "high"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityLow    GoalPriority = "low"
)

// Weight returns the ordering weight of the priority (high = 3, low = 1)
func (p GoalPriority) Weight() int {
	switch p {
	case GoalPriorityHigh:
		return 3
	case GoalPriorityMedium:
		return 2
	case GoalPriorityLow:
		return 1
	}
	return 0
}

// Goal is a savings target with a deadline.
// Current only grows through Contribute and never exceeds Target.
type Goal struct {
	ID                  uuid.UUID
	Name                string
	Target              decimal.Decimal
	Current             decimal.Decimal
	Deadline            time.Time
	Category            GoalCategory
	Priority            GoalPriority
	MonthlyContribution *decimal.Decimal // Optional: planned monthly saving
	Color               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate ensures the goal adheres to domain rules
func (g *Goal) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("%w: goal name cannot be empty", ErrInvalidInput)
	}
	if len([]rune(g.Name)) > 100 {
		return fmt.Errorf("%w: goal name must be less than 100 characters", ErrInvalidInput)
	}
	if g.Target.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: goal target must be positive", ErrInvalidInput)
	}
	if !fitsPlaces(g.Target, MoneyPlaces) || !fitsPlaces(g.Current, MoneyPlaces) {
		return fmt.Errorf("%w: goal amounts cannot have more than %d decimal places", ErrInvalidInput, MoneyPlaces)
	}
	if g.Current.IsNegative() || g.Current.GreaterThan(g.Target) {
		return fmt.Errorf("%w: goal current amount must be between 0 and target", ErrInvalidInput)
	}
	if g.Deadline.IsZero() {
		return fmt.Errorf("%w: goal deadline is required", ErrInvalidInput)
	}
	if g.MonthlyContribution != nil && g.MonthlyContribution.IsNegative() {
		return fmt.Errorf("%w: monthly contribution cannot be negative", ErrInvalidInput)
	}
	if g.MonthlyContribution != nil && !fitsPlaces(*g.MonthlyContribution, MoneyPlaces) {
		return fmt.Errorf("%w: monthly contribution cannot have more than %d decimal places", ErrInvalidInput, MoneyPlaces)
	}

	switch g.Category {
	case GoalCategoryEmergency, GoalCategoryVacation, GoalCategoryHouse, GoalCategoryCar,
		GoalCategoryEducation, GoalCategoryRetirement, GoalCategoryInvestment, GoalCategoryOther:
	default:
		return fmt.Errorf("%w: unknown goal category %q", ErrInvalidInput, g.Category)
	}

	if g.Priority.Weight() == 0 {
		return fmt.Errorf("%w: goal priority must be high, medium or low", ErrInvalidInput)
	}

	return nil
}

// Contribute adds amount to Current, capped at Target
func (g *Goal) Contribute(amount decimal.Decimal, at time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: contribution must be positive", ErrInvalidInput)
	}
	if !fitsPlaces(amount, MoneyPlaces) {
		return fmt.Errorf("%w: contribution cannot have more than %d decimal places", ErrInvalidInput, MoneyPlaces)
	}
	g.Current = decimal.Min(g.Current.Add(amount), g.Target)
	g.UpdatedAt = at
	return nil
}

// Remaining returns how much is still missing to reach the target
func (g *Goal) Remaining() decimal.Decimal {
	return g.Target.Sub(g.Current)
}

// Progress returns current / target as a percentage
func (g *Goal) Progress() float64 {
	if g.Target.IsZero() {
		return 0
	}
	return g.Current.Div(g.Target).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// IsAchieved reports whether the target has been reached
func (g *Goal) IsAchieved() bool {
	return g.Current.GreaterThanOrEqual(g.Target)
}

// PlannedContribution returns MonthlyContribution or zero when unset
func (g *Goal) PlannedContribution() decimal.Decimal {
	if g.MonthlyContribution == nil {
		return decimal.Zero
	}
	return *g.MonthlyContribution
}
