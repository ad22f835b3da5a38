package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

const goalColumns = `id, name, target_amount, current_amount, deadline, category, priority,
	monthly_contribution, color, created_at, updated_at`

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var g domain.Goal
	var targetStr, currentStr string
	var contribution sql.NullString

	err := row.Scan(
		&g.ID,
		&g.Name,
		&targetStr,
		&currentStr,
		&g.Deadline,
		&g.Category,
		&g.Priority,
		&contribution,
		&g.Color,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if g.Target, err = parseDecimal("target_amount", targetStr); err != nil {
		return nil, err
	}
	if g.Current, err = parseDecimal("current_amount", currentStr); err != nil {
		return nil, err
	}

	// Parse monthly_contribution (nullable)
	if contribution.Valid {
		c, err := parseDecimal("monthly_contribution", contribution.String)
		if err != nil {
			return nil, err
		}
		g.MonthlyContribution = &c
	}

	return &g, nil
}

func contributionArg(g *domain.Goal) any {
	if g.MonthlyContribution == nil {
		return nil
	}
	return g.MonthlyContribution.String()
}

// Create inserts a new goal
func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	query := `
		INSERT INTO goals (id, name, target_amount, current_amount, deadline, category, priority,
			monthly_contribution, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.Name,
		goal.Target.String(),
		goal.Current.String(),
		goal.Deadline,
		string(goal.Category),
		string(goal.Priority),
		contributionArg(goal),
		goal.Color,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// GetByID retrieves a goal by its ID
func (r *goalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get goal by ID: %w", err)
	}

	return g, nil
}

// Update replaces the stored goal
func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	query := `
		UPDATE goals
		SET name = $2, target_amount = $3, current_amount = $4, deadline = $5, category = $6,
			priority = $7, monthly_contribution = $8, color = $9, updated_at = $10
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.Name,
		goal.Target.String(),
		goal.Current.String(),
		goal.Deadline,
		string(goal.Category),
		string(goal.Priority),
		contributionArg(goal),
		goal.Color,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	return checkAffected(res, fmt.Errorf("goal %s: %w", goal.ID, domain.ErrNotFound))
}

// Delete removes a goal by its ID
func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	return checkAffected(res, fmt.Errorf("goal %s: %w", id, domain.ErrNotFound))
}

// List retrieves all goals, nearest deadline first
func (r *goalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY deadline, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}
