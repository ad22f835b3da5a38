package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/budget"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

// MockBudgetRepository is a mock implementation of BudgetRepository for testing
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) GetByCategory(ctx context.Context, category string) (*domain.Budget, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Update(ctx context.Context, b *domain.Budget) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Budget), args.Error(1)
}

// MockGoalRepository is a mock implementation of GoalRepository for testing
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) Create(ctx context.Context, h *domain.Holding) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHoldingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHoldingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) SaveAll(ctx context.Context, hs []*domain.Holding) error {
	return m.Called(ctx, hs).Error(0)
}

type mocks struct {
	tx       *MockTransactionRepository
	budgets  *MockBudgetRepository
	goals    *MockGoalRepository
	holdings *MockHoldingRepository
}

func newService(opening int64) (*DashboardService, mocks) {
	m := mocks{
		tx:       new(MockTransactionRepository),
		budgets:  new(MockBudgetRepository),
		goals:    new(MockGoalRepository),
		holdings: new(MockHoldingRepository),
	}
	return NewDashboardService(m.tx, m.budgets, m.goals, m.holdings, decimal.NewFromInt(opening), "USD"), m
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 25, 0, 0, 0, 0, time.UTC)
	service, m := newService(1000)

	m.tx.On("List", ctx, domain.TransactionFilter{}).Return([]*domain.Transaction{
		{Amount: decimal.NewFromInt(6000), Category: "Salary", Type: domain.TransactionTypeIncome, Date: now},
		{Amount: decimal.NewFromInt(-900), Category: "Dining", Type: domain.TransactionTypeExpense, Date: now},
	}, nil)
	m.budgets.On("List", ctx).Return([]*domain.Budget{budgetWith(1000, 900)}, nil)
	m.goals.On("List", ctx).Return([]*domain.Goal{{
		ID: uuid.New(), Name: "Car", Target: decimal.NewFromInt(1200), Current: decimal.Zero,
		Deadline: now.AddDate(1, 0, 0), Priority: domain.GoalPriorityHigh,
	}}, nil)
	m.holdings.On("List", ctx).Return([]*domain.Holding{{
		Symbol: "VTI", Shares: decimal.NewFromInt(10), AvgCost: decimal.NewFromInt(200),
		CurrentPrice: decimal.NewFromInt(250), AssetClass: domain.AssetClassETF,
	}}, nil)

	snap, err := service.Snapshot(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, now, snap.GeneratedAt)
	assert.True(t, snap.MonthlyIncome.Equal(decimal.NewFromInt(1000)))
	assert.Len(t, snap.SpendingTrends, 6)
	require.Len(t, snap.CategoryAnalysis, 1)
	require.Len(t, snap.BudgetPerformance, 1)
	assert.Equal(t, budget.StatusOnTrack, snap.BudgetPerformance[0].Status)
	require.Len(t, snap.GoalProjections, 1)
	assert.True(t, snap.GoalProjections[0].RequiredMonthlyContribution.Equal(decimal.NewFromInt(100)))
	assert.True(t, snap.Portfolio.TotalValue.Equal(decimal.NewFromInt(2500)))
	assert.False(t, snap.Prediction.InsufficientData)

	assert.True(t, snap.NetWorth.Liquidity.Equal(decimal.NewFromInt(6100)))
	assert.True(t, snap.NetWorth.Equity.Equal(decimal.NewFromInt(2500)))
	assert.True(t, snap.NetWorth.Total.Equal(decimal.NewFromInt(8600)))
}

func TestSnapshot_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	service, m := newService(0)

	m.tx.On("List", ctx, domain.TransactionFilter{}).Return([]*domain.Transaction{}, nil)
	m.budgets.On("List", ctx).Return(nil, errors.New("db down"))

	_, err := service.Snapshot(ctx, time.Now())

	assert.ErrorContains(t, err, "failed to list budgets")
	m.goals.AssertNotCalled(t, "List", mock.Anything)
}

func TestGetNetWorth(t *testing.T) {
	ctx := context.Background()
	service, m := newService(15000)

	m.tx.On("List", ctx, domain.TransactionFilter{}).Return([]*domain.Transaction{
		{Amount: decimal.NewFromInt(-500), Type: domain.TransactionTypeExpense},
	}, nil)
	m.holdings.On("List", ctx).Return([]*domain.Holding{}, nil)

	nw, err := service.GetNetWorth(ctx)

	require.NoError(t, err)
	assert.True(t, nw.Total.Equal(decimal.NewFromInt(14500)))
	assert.True(t, nw.Equity.IsZero())
}
