package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create stores a new transaction. An expense is added to the spent
	// total of its category's budget atomically with the insert; categories
	// without a budget are left alone.
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// Update replaces a stored transaction
	Update(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction by its ID
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves the transactions matching the filter, most recent first
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
}

// BudgetRepository defines the interface for budget persistence operations
type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) error
	GetByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// GetByCategory retrieves the budget of a category
	GetByCategory(ctx context.Context, category string) (*Budget, error)

	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Budget, error)
}

// GoalRepository defines the interface for goal persistence operations
type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	Update(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Goal, error)
}

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	Create(ctx context.Context, holding *Holding) error
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Holding, error)

	// SaveAll persists the given holdings, derived fields included
	SaveAll(ctx context.Context, holdings []*Holding) error
}

// ValueHistoryRepository defines the interface for portfolio value snapshots
type ValueHistoryRepository interface {
	// Add inserts a new snapshot; history is append-only
	Add(ctx context.Context, point *ValuePoint) error

	// GetLatest returns the most recent snapshot, or an error wrapping ErrNotFound
	GetLatest(ctx context.Context) (*ValuePoint, error)

	// List returns the snapshots taken at or after since, oldest first
	List(ctx context.Context, since time.Time) ([]*ValuePoint, error)
}
