package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// notFound maps gorm.ErrRecordNotFound to domain.ErrNotFound
func notFound(err error, what string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, key, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func deleted(res *gorm.DB, what string, id uuid.UUID) error {
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

// isUniqueViolation reports a UNIQUE constraint failure from the SQLite driver
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// TransactionRepository implements domain.TransactionRepository
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a transaction. An expense is added to the spent total of
// its category's budget in the same database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Create(newTransactionModel(tx)).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		if tx.IsExpense() {
			return addSpent(db, tx.Category, tx.Magnitude())
		}
		return nil
	})
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var m transactionModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return m.toDomain(), nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	res := r.db.WithContext(ctx).Model(&transactionModel{}).Where("id = ?", tx.ID.String()).
		Select("*").Updates(newTransactionModel(tx))
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&transactionModel{}, "id = ?", id.String()), "transaction", id)
}

// List retrieves the transactions matching the filter, most recent first
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&transactionModel{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("date <= ?", filter.To)
	}

	var models []transactionModel
	if err := q.Order("date DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	out := make([]*domain.Transaction, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// BudgetRepository implements domain.BudgetRepository
type BudgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	if err := r.db.WithContext(ctx).Create(newBudgetModel(b)).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget for category %s: %w", b.Category, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	var m budgetModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		return nil, notFound(err, "budget", id)
	}
	return m.toDomain(), nil
}

func (r *BudgetRepository) GetByCategory(ctx context.Context, category string) (*domain.Budget, error) {
	var m budgetModel
	if err := r.db.WithContext(ctx).First(&m, "category = ?", category).Error; err != nil {
		return nil, notFound(err, "budget for category", category)
	}
	return m.toDomain(), nil
}

func (r *BudgetRepository) Update(ctx context.Context, b *domain.Budget) error {
	res := r.db.WithContext(ctx).Model(&budgetModel{}).Where("id = ?", b.ID.String()).
		Select("*").Updates(newBudgetModel(b))
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("budget for category %s: %w", b.Category, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update budget: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("budget %s: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&budgetModel{}, "id = ?", id.String()), "budget", id)
}

func (r *BudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	var models []budgetModel
	if err := r.db.WithContext(ctx).Order("category").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	out := make([]*domain.Budget, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// addSpent accumulates amount on the spent total of the category's budget.
// The sum is done in Go so the text column keeps exact decimals.
// Categories without a budget are left alone.
func addSpent(db *gorm.DB, category string, amount decimal.Decimal) error {
	var m budgetModel
	err := db.First(&m, "category = ?", category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get budget for category %s: %w", category, err)
	}

	if err := db.Model(&m).Update("spent", m.Spent.Add(amount)).Error; err != nil {
		return fmt.Errorf("failed to add spent amount: %w", err)
	}
	return nil
}

// GoalRepository implements domain.GoalRepository
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	if err := r.db.WithContext(ctx).Create(newGoalModel(g)).Error; err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	var m goalModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		return nil, notFound(err, "goal", id)
	}
	return m.toDomain(), nil
}

func (r *GoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	res := r.db.WithContext(ctx).Model(&goalModel{}).Where("id = ?", g.ID.String()).
		Select("*").Omit("created_at").Updates(newGoalModel(g))
	if res.Error != nil {
		return fmt.Errorf("failed to update goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("goal %s: %w", g.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&goalModel{}, "id = ?", id.String()), "goal", id)
}

func (r *GoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	var models []goalModel
	if err := r.db.WithContext(ctx).Order("deadline, name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	out := make([]*domain.Goal, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// HoldingRepository implements domain.HoldingRepository
type HoldingRepository struct {
	db *gorm.DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *gorm.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

func (r *HoldingRepository) Create(ctx context.Context, h *domain.Holding) error {
	if err := r.db.WithContext(ctx).Create(newHoldingModel(h)).Error; err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}
	return nil
}

func (r *HoldingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	var m holdingModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		return nil, notFound(err, "holding", id)
	}
	return m.toDomain(), nil
}

func (r *HoldingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&holdingModel{}, "id = ?", id.String()), "holding", id)
}

func (r *HoldingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	var models []holdingModel
	if err := r.db.WithContext(ctx).Order("symbol, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	out := make([]*domain.Holding, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// SaveAll upserts every holding in one database transaction
func (r *HoldingRepository) SaveAll(ctx context.Context, holdings []*domain.Holding) error {
	if len(holdings) == 0 {
		return nil
	}
	models := make([]*holdingModel, 0, len(holdings))
	for _, h := range holdings {
		models = append(models, newHoldingModel(h))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&models).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save holdings: %w", err)
	}
	return nil
}

// ValueHistoryRepository implements domain.ValueHistoryRepository
type ValueHistoryRepository struct {
	db *gorm.DB
}

// NewValueHistoryRepository creates a new portfolio value history repository
func NewValueHistoryRepository(db *gorm.DB) *ValueHistoryRepository {
	return &ValueHistoryRepository{db: db}
}

func (r *ValueHistoryRepository) Add(ctx context.Context, p *domain.ValuePoint) error {
	if err := r.db.WithContext(ctx).Create(newValuePointModel(p)).Error; err != nil {
		return fmt.Errorf("failed to insert portfolio value history entry: %w", err)
	}
	return nil
}

func (r *ValueHistoryRepository) GetLatest(ctx context.Context) (*domain.ValuePoint, error) {
	var m valuePointModel
	err := r.db.WithContext(ctx).Order("date DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no portfolio value history found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest portfolio value: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ValueHistoryRepository) List(ctx context.Context, since time.Time) ([]*domain.ValuePoint, error) {
	var models []valuePointModel
	if err := r.db.WithContext(ctx).Where("date >= ?", since).Order("date").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list portfolio value history: %w", err)
	}

	out := make([]*domain.ValuePoint, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

var (
	_ domain.TransactionRepository  = (*TransactionRepository)(nil)
	_ domain.BudgetRepository       = (*BudgetRepository)(nil)
	_ domain.GoalRepository         = (*GoalRepository)(nil)
	_ domain.HoldingRepository      = (*HoldingRepository)(nil)
	_ domain.ValueHistoryRepository = (*ValueHistoryRepository)(nil)
)
