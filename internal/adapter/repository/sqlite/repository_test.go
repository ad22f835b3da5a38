package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(openTestDB(t))
	base := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	groceries := &domain.Transaction{ID: uuid.New(), Amount: decimal.RequireFromString("-85.42"), Category: "Groceries", Description: "Market", Date: base, Type: domain.TransactionTypeExpense}
	salary := &domain.Transaction{ID: uuid.New(), Amount: decimal.NewFromInt(5000), Category: "Salary", Description: "March pay", Date: base.AddDate(0, 0, 5), Type: domain.TransactionTypeIncome}
	require.NoError(t, repo.Create(ctx, groceries))
	require.NoError(t, repo.Create(ctx, salary))

	t.Run("GetByID keeps exact decimals", func(t *testing.T) {
		got, err := repo.GetByID(ctx, groceries.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("-85.42")))
		assert.Equal(t, domain.TransactionTypeExpense, got.Type)
	})

	t.Run("List most recent first", func(t *testing.T) {
		all, err := repo.List(ctx, domain.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, salary.ID, all[0].ID)
	})

	t.Run("List filters by type and range", func(t *testing.T) {
		got, err := repo.List(ctx, domain.TransactionFilter{Type: domain.TransactionTypeExpense, To: base})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, groceries.ID, got[0].ID)
	})

	t.Run("Update and Delete", func(t *testing.T) {
		groceries.Description = "Farmers market"
		require.NoError(t, repo.Update(ctx, groceries))
		got, err := repo.GetByID(ctx, groceries.ID)
		require.NoError(t, err)
		assert.Equal(t, "Farmers market", got.Description)

		require.NoError(t, repo.Delete(ctx, groceries.ID))
		_, err = repo.GetByID(ctx, groceries.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, groceries.ID), domain.ErrNotFound)
	})
}

func TestTransactionRepository_CreateAddsSpent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	budgets := NewBudgetRepository(db)
	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, budgets.Create(ctx, &domain.Budget{ID: uuid.New(), Category: "Dining", Limit: decimal.NewFromInt(400), Spent: decimal.Zero, Period: domain.BudgetPeriodMonthly}))

	newTx := func(category, amount string, typ domain.TransactionType) *domain.Transaction {
		return &domain.Transaction{ID: uuid.New(), Amount: decimal.RequireFromString(amount), Category: category, Description: category, Date: date, Type: typ}
	}

	t.Run("Expenses accumulate exactly", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newTx("Dining", "-10.10", domain.TransactionTypeExpense)))
		require.NoError(t, repo.Create(ctx, newTx("Dining", "-20.20", domain.TransactionTypeExpense)))
		require.NoError(t, repo.Create(ctx, newTx("Dining", "500", domain.TransactionTypeIncome)))

		got, err := budgets.GetByCategory(ctx, "Dining")
		require.NoError(t, err)
		assert.Equal(t, "30.3", got.Spent.String())
	})

	t.Run("Expense without budget", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, newTx("Travel", "-99", domain.TransactionTypeExpense)))
	})

	t.Run("Failed budget update stores nothing", func(t *testing.T) {
		require.NoError(t, db.Migrator().DropTable(&budgetModel{}))

		tx := newTx("Dining", "-5", domain.TransactionTypeExpense)
		require.Error(t, repo.Create(ctx, tx))

		_, err := repo.GetByID(ctx, tx.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		all, err := repo.List(ctx, domain.TransactionFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}

func TestBudgetRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBudgetRepository(openTestDB(t))

	dining := &domain.Budget{ID: uuid.New(), Category: "Dining", Limit: decimal.NewFromInt(400), Spent: decimal.Zero, Period: domain.BudgetPeriodMonthly}
	require.NoError(t, repo.Create(ctx, dining))

	t.Run("Duplicate category", func(t *testing.T) {
		dup := &domain.Budget{ID: uuid.New(), Category: "Dining", Limit: decimal.NewFromInt(1), Spent: decimal.Zero, Period: domain.BudgetPeriodWeekly}
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrAlreadyExists)
	})

	t.Run("GetByCategory missing", func(t *testing.T) {
		_, err := repo.GetByCategory(ctx, "Travel")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGoalRepository_OptionalContribution(t *testing.T) {
	ctx := context.Background()
	repo := NewGoalRepository(openTestDB(t))
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	monthly := decimal.NewFromInt(250)

	g := &domain.Goal{
		ID: uuid.New(), Name: "Car", Target: decimal.NewFromInt(12000), Current: decimal.Zero,
		Deadline: now.AddDate(2, 0, 0), Category: domain.GoalCategoryCar, Priority: domain.GoalPriorityHigh,
		MonthlyContribution: &monthly, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MonthlyContribution)
	assert.True(t, got.MonthlyContribution.Equal(monthly))

	g.MonthlyContribution = nil
	g.Current = decimal.NewFromInt(500)
	require.NoError(t, repo.Update(ctx, g))

	got, err = repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MonthlyContribution)
	assert.True(t, got.Current.Equal(decimal.NewFromInt(500)))
}

func TestHoldingRepository_SaveAll(t *testing.T) {
	ctx := context.Background()
	repo := NewHoldingRepository(openTestDB(t))

	aapl := &domain.Holding{ID: uuid.New(), Symbol: "AAPL", Shares: decimal.NewFromInt(10), AvgCost: decimal.NewFromInt(150), CurrentPrice: decimal.NewFromInt(190), AssetClass: domain.AssetClassStock}
	require.NoError(t, repo.Create(ctx, aapl))

	aapl.CurrentPrice = decimal.NewFromInt(200)
	vti := &domain.Holding{ID: uuid.New(), Symbol: "VTI", Shares: decimal.NewFromInt(5), AvgCost: decimal.NewFromInt(220), CurrentPrice: decimal.NewFromInt(240), AssetClass: domain.AssetClassETF}
	require.NoError(t, repo.SaveAll(ctx, []*domain.Holding{aapl, vti}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AAPL", all[0].Symbol)
	assert.True(t, all[0].CurrentPrice.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.AssetClassETF, all[1].AssetClass)
}

func TestValueHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewValueHistoryRepository(openTestDB(t))
	day := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.GetLatest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Add(ctx, &domain.ValuePoint{
			ID: uuid.New(), Date: day.AddDate(0, 0, i),
			MarketValue: decimal.NewFromInt(int64(1000 + i*10)), CostBasis: decimal.NewFromInt(900),
		}))
	}

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	assert.True(t, latest.MarketValue.Equal(decimal.NewFromInt(1020)))

	since, err := repo.List(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.True(t, since[0].Date.Before(since[1].Date))
}
