package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// CreateGoalInput represents the input for creating a goal
type CreateGoalInput struct {
	Name                string
	Target              decimal.Decimal
	Deadline            time.Time
	Category            domain.GoalCategory
	Priority            domain.GoalPriority
	MonthlyContribution *decimal.Decimal
	Color               string
}

// UpdateGoalInput represents a partial goal update. Nil fields are left unchanged.
// Current is not updatable: it only moves through Contribute.
type UpdateGoalInput struct {
	Name                *string
	Target              *decimal.Decimal
	Deadline            *time.Time
	Priority            *domain.GoalPriority
	MonthlyContribution *decimal.Decimal
	Color               *string
}

// GoalService handles savings goals
type GoalService struct {
	GoalRepo domain.GoalRepository
}

// NewGoalService creates a new GoalService instance
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{GoalRepo: goalRepo}
}

// Create adds a goal with nothing saved yet
func (s *GoalService) Create(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	now := time.Now()
	g := &domain.Goal{
		ID:                  uuid.New(),
		Name:                input.Name,
		Target:              input.Target,
		Current:             decimal.Zero,
		Deadline:            input.Deadline,
		Category:            input.Category,
		Priority:            input.Priority,
		MonthlyContribution: input.MonthlyContribution,
		Color:               input.Color,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if g.Priority == "" {
		g.Priority = domain.GoalPriorityMedium
	}
	if g.Category == "" {
		g.Category = domain.GoalCategoryOther
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.GoalRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// Update applies a partial update. Lowering the target below the saved amount is rejected.
func (s *GoalService) Update(ctx context.Context, id uuid.UUID, input UpdateGoalInput) (*domain.Goal, error) {
	g, err := s.GoalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		g.Name = *input.Name
	}
	if input.Target != nil {
		g.Target = *input.Target
	}
	if input.Deadline != nil {
		g.Deadline = *input.Deadline
	}
	if input.Priority != nil {
		g.Priority = *input.Priority
	}
	if input.MonthlyContribution != nil {
		contribution := *input.MonthlyContribution
		g.MonthlyContribution = &contribution
	}
	if input.Color != nil {
		g.Color = *input.Color
	}
	g.UpdatedAt = time.Now()

	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.GoalRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// Contribute adds amount to a goal, never beyond its target
// Logic:
//  1. Fetch the goal
//  2. Apply the contribution (capped at target)
//  3. Save using GoalRepo.Update
func (s *GoalService) Contribute(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Goal, error) {
	g, err := s.GoalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := g.Contribute(amount, time.Now()); err != nil {
		return nil, err
	}

	if err := s.GoalRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// Delete removes a goal
func (s *GoalService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.GoalRepo.Delete(ctx, id)
}

// List returns every goal
func (s *GoalService) List(ctx context.Context) ([]*domain.Goal, error) {
	return s.GoalRepo.List(ctx)
}

// Projections projects every goal against the monthly income
func (s *GoalService) Projections(ctx context.Context, monthlyIncome decimal.Decimal, now time.Time) ([]Projection, error) {
	goals, err := s.GoalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return ProjectAll(goals, monthlyIncome, now), nil
}

// Suggest proposes a monthly contribution for one goal
func (s *GoalService) Suggest(ctx context.Context, id uuid.UUID, monthlySurplus decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	g, err := s.GoalRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return SuggestedContribution(g, monthlySurplus, now), nil
}

// Distribute splits available across the unfinished goals
func (s *GoalService) Distribute(ctx context.Context, available decimal.Decimal, now time.Time) ([]Allocation, error) {
	goals, err := s.GoalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return Distribute(goals, available, now), nil
}
