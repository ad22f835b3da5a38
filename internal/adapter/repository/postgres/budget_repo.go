package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// budgetRepository implements domain.BudgetRepository
type budgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *DB) domain.BudgetRepository {
	return &budgetRepository{db: db}
}

const budgetColumns = `id, category, amount, spent, period, color`

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var b domain.Budget
	var limitStr, spentStr string

	if err := row.Scan(&b.ID, &b.Category, &limitStr, &spentStr, &b.Period, &b.Color); err != nil {
		return nil, err
	}

	limit, err := parseDecimal("amount", limitStr)
	if err != nil {
		return nil, err
	}
	spent, err := parseDecimal("spent", spentStr)
	if err != nil {
		return nil, err
	}
	b.Limit = limit
	b.Spent = spent

	return &b, nil
}

// Create inserts a new budget. A second budget for the same category is rejected.
func (r *budgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	query := `
		INSERT INTO budgets (id, category, amount, spent, period, color)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		budget.ID,
		budget.Category,
		budget.Limit.String(),
		budget.Spent.String(),
		string(budget.Period),
		budget.Color,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget for category %s: %w", budget.Category, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// GetByID retrieves a budget by its ID
func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("budget %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get budget by ID: %w", err)
	}

	return b, nil
}

// GetByCategory retrieves the budget of a category
func (r *budgetRepository) GetByCategory(ctx context.Context, category string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE category = $1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("budget for category %s: %w", category, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get budget by category: %w", err)
	}

	return b, nil
}

// Update replaces the stored budget
func (r *budgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	query := `
		UPDATE budgets
		SET category = $2, amount = $3, spent = $4, period = $5, color = $6
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		budget.ID,
		budget.Category,
		budget.Limit.String(),
		budget.Spent.String(),
		string(budget.Period),
		budget.Color,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget for category %s: %w", budget.Category, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}

	return checkAffected(res, fmt.Errorf("budget %s: %w", budget.ID, domain.ErrNotFound))
}

// Delete removes a budget by its ID
func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	return checkAffected(res, fmt.Errorf("budget %s: %w", id, domain.ErrNotFound))
}

// List retrieves all budgets ordered by category
func (r *budgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}
