package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// CreateBudgetInput represents the input for creating a budget
type CreateBudgetInput struct {
	Category string
	Limit    decimal.Decimal
	Period   domain.BudgetPeriod
	Color    string
}

// UpdateBudgetInput represents a partial budget update. Nil fields are left unchanged.
type UpdateBudgetInput struct {
	Category *string
	Limit    *decimal.Decimal
	Period   *domain.BudgetPeriod
	Color    *string
}

// BudgetService handles budget management and budget analytics
type BudgetService struct {
	BudgetRepo      domain.BudgetRepository
	TransactionRepo domain.TransactionRepository
	Currency        string
}

// NewBudgetService creates a new BudgetService instance
func NewBudgetService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository, currencyCode string) *BudgetService {
	return &BudgetService{
		BudgetRepo:      budgetRepo,
		TransactionRepo: transactionRepo,
		Currency:        currencyCode,
	}
}

// Create adds a budget for a category
// Logic:
//  1. Build the budget with Spent = 0 and validate it
//  2. Reject the category if a budget already exists for it
//  3. Save using BudgetRepo.Create
func (s *BudgetService) Create(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	period := input.Period
	if period == "" {
		period = domain.BudgetPeriodMonthly
	}

	budget := &domain.Budget{
		ID:       uuid.New(),
		Category: input.Category,
		Limit:    input.Limit,
		Spent:    decimal.Zero,
		Period:   period,
		Color:    input.Color,
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureCategoryFree(ctx, budget.Category, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.BudgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}

	return budget, nil
}

// Update applies a partial update to a budget. Spent is never touched here.
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	budget, err := s.BudgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil && *input.Category != budget.Category {
		if err := s.ensureCategoryFree(ctx, *input.Category, budget.ID); err != nil {
			return nil, err
		}
		budget.Category = *input.Category
	}
	if input.Limit != nil {
		budget.Limit = *input.Limit
	}
	if input.Period != nil {
		budget.Period = *input.Period
	}
	if input.Color != nil {
		budget.Color = *input.Color
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}

	if err := s.BudgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}

	return budget, nil
}

// Delete removes a budget
func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.BudgetRepo.Delete(ctx, id)
}

// List returns every budget
func (s *BudgetService) List(ctx context.Context) ([]*domain.Budget, error) {
	return s.BudgetRepo.List(ctx)
}

// Status evaluates a single budget at now
func (s *BudgetService) Status(ctx context.Context, id uuid.UUID, now time.Time) (*Performance, error) {
	budget, err := s.BudgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	perf := Evaluate(budget, now)
	return &perf, nil
}

// Performance evaluates every budget at now
func (s *BudgetService) Performance(ctx context.Context, now time.Time) ([]Performance, error) {
	budgets, err := s.BudgetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return EvaluateAll(budgets, now), nil
}

// Totals sums limits and spending across budgets
func (s *BudgetService) Totals(ctx context.Context) (Totals, error) {
	budgets, err := s.BudgetRepo.List(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to list budgets: %w", err)
	}
	return Total(budgets), nil
}

// Suggestions computes optimization hints from the budgets and all expenses
func (s *BudgetService) Suggestions(ctx context.Context) ([]Suggestion, error) {
	budgets, err := s.BudgetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	transactions, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{Type: domain.TransactionTypeExpense})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return Suggest(transactions, budgets, s.Currency), nil
}

// ensureCategoryFree fails with ErrAlreadyExists when another budget owns category
func (s *BudgetService) ensureCategoryFree(ctx context.Context, category string, self uuid.UUID) error {
	existing, err := s.BudgetRepo.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing != nil && existing.ID != self {
		return fmt.Errorf("%w: budget for category %q", domain.ErrAlreadyExists, category)
	}
	return nil
}
