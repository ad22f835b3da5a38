package anomaly

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

var day = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

func expense(category string, amount int64, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:       uuid.New(),
		Amount:   decimal.NewFromInt(-amount),
		Category: category,
		Date:     date,
		Type:     domain.TransactionTypeExpense,
	}
}

func TestOutliers_FlagsOnlyTheExtremeValue(t *testing.T) {
	var txs []*domain.Transaction
	for i := 0; i < 9; i++ {
		txs = append(txs, expense("Dining", 10, day.AddDate(0, 0, i)))
	}
	big := expense("Electronics", 1000, day.AddDate(0, 0, 9))
	txs = append(txs, big)

	outliers := Outliers(txs)

	require.Len(t, outliers, 1)
	assert.Equal(t, big.ID, outliers[0].ID)
}

func TestOutliers_IgnoresIncomeAndEmptyInput(t *testing.T) {
	assert.Empty(t, Outliers(nil))

	income := &domain.Transaction{Amount: decimal.NewFromInt(100000), Type: domain.TransactionTypeIncome, Date: day}
	txs := []*domain.Transaction{income, expense("Dining", 10, day), expense("Dining", 12, day)}
	assert.Empty(t, Outliers(txs))
}

func TestBudgetAnomalies(t *testing.T) {
	budget := func(category string, spent int64) *domain.Budget {
		return &domain.Budget{Category: category, Limit: decimal.NewFromInt(100), Spent: decimal.NewFromInt(spent)}
	}

	tests := []struct {
		name        string
		budget      *domain.Budget
		want        Severity
		description string
	}{
		{name: "Severely over", budget: budget("Dining", 151), want: SeverityHigh, description: "Severely over budget at 151.0% utilization"},
		{name: "Over", budget: budget("Travel", 111), want: SeverityMedium, description: "Over budget at 111.0% utilization"},
		{name: "Under-utilized", budget: budget("Gym", 5), want: SeverityLow, description: "Significantly under-utilized at 5.0% utilization"},
		{name: "Exactly 150 is medium", budget: budget("Fuel", 150), want: SeverityMedium, description: "Over budget at 150.0% utilization"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BudgetAnomalies([]*domain.Budget{tt.budget})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Severity)
			assert.Equal(t, tt.description, got[0].Description)
			assert.Equal(t, tt.budget.Category, got[0].Category)
		})
	}

	t.Run("Normal band produces nothing", func(t *testing.T) {
		assert.Empty(t, BudgetAnomalies([]*domain.Budget{budget("A", 20), budget("B", 75), budget("C", 110)}))
	})
}

func TestSpikes(t *testing.T) {
	txs := []*domain.Transaction{
		expense("Groceries", 20, day),
		expense("Groceries", 20, day.AddDate(0, 0, 1)),
		expense("Groceries", 20, day.AddDate(0, 0, 2)),
		expense("Groceries", 20, day.AddDate(0, 0, 3)),
		expense("Groceries", 20, day.AddDate(0, 0, 4)),
		// 600 on day 6, mostly travel
		expense("Travel", 500, day.AddDate(0, 0, 5)),
		expense("Groceries", 100, day.AddDate(0, 0, 5).Add(3*time.Hour)),
	}

	spikes := Spikes(txs, time.UTC)

	require.Len(t, spikes, 1)
	assert.True(t, spikes[0].Amount.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, "Travel", spikes[0].Category)
	assert.Equal(t, time.Date(2025, time.April, 6, 0, 0, 0, 0, time.UTC), spikes[0].Date)
}

func TestSpikes_NoSpendingDays(t *testing.T) {
	assert.Empty(t, Spikes(nil, time.UTC))

	income := &domain.Transaction{Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeIncome, Date: day}
	assert.Empty(t, Spikes([]*domain.Transaction{income}, time.UTC))

	// a single day can never exceed 2.5x its own mean
	assert.Empty(t, Spikes([]*domain.Transaction{expense("Rent", 1500, day)}, time.UTC))
}

func TestSpikes_OrderedByDate(t *testing.T) {
	var txs []*domain.Transaction
	for i := 0; i < 20; i++ {
		txs = append(txs, expense("Coffee", 5, day.AddDate(0, 0, i)))
	}
	txs = append(txs, expense("Rent", 400, day.AddDate(0, 0, 15)))
	txs = append(txs, expense("Insurance", 300, day.AddDate(0, 0, 2)))

	spikes := Spikes(txs, time.UTC)

	require.Len(t, spikes, 2)
	assert.True(t, spikes[0].Date.Before(spikes[1].Date))
	assert.Equal(t, "Insurance", spikes[0].Category)
	assert.Equal(t, "Rent", spikes[1].Category)
}

func TestSpikes_SameDayAcrossLocations(t *testing.T) {
	// every call yields a distinct *Location with the same offset, like rows read back from SQLite
	ist := func() *time.Location { return time.FixedZone("IST", 5*3600+30*60) }

	var txs []*domain.Transaction
	for i := 1; i <= 10; i++ {
		txs = append(txs, expense("Groceries", 10, time.Date(2025, time.March, i, 12, 0, 0, 0, ist())))
	}
	for h := 9; h < 12; h++ {
		txs = append(txs, expense("Electronics", 30, time.Date(2025, time.March, 20, h, 0, 0, 0, ist())))
	}

	loc := ist()
	spikes := Spikes(txs, loc)

	require.Len(t, spikes, 1)
	assert.True(t, spikes[0].Amount.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, "Electronics", spikes[0].Category)
	assert.True(t, spikes[0].Date.Equal(time.Date(2025, time.March, 20, 0, 0, 0, 0, loc)))
}

func TestSpikes_DaysTakenInLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	var txs []*domain.Transaction
	for i := 1; i <= 10; i++ {
		txs = append(txs, expense("Groceries", 10, time.Date(2025, time.March, i, 12, 0, 0, 0, ist)))
	}
	// 21:00 UTC on the 19th and 01:00 UTC on the 20th are both the 20th in IST
	txs = append(txs,
		expense("Travel", 45, time.Date(2025, time.March, 19, 21, 0, 0, 0, time.UTC)),
		expense("Travel", 45, time.Date(2025, time.March, 20, 1, 0, 0, 0, time.UTC)),
	)

	spikes := Spikes(txs, ist)

	require.Len(t, spikes, 1)
	assert.True(t, spikes[0].Amount.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, 20, spikes[0].Date.Day())
}

func TestDominantCategory_TieBrokenByName(t *testing.T) {
	got := dominantCategory(map[string]decimal.Decimal{
		"Zoo":    decimal.NewFromInt(10),
		"Books":  decimal.NewFromInt(10),
		"Coffee": decimal.NewFromInt(3),
	})
	assert.Equal(t, "Books", got)
	assert.Equal(t, UnknownCategory, dominantCategory(nil))
}

func TestDetect(t *testing.T) {
	budgets := []*domain.Budget{{Category: "Dining", Limit: decimal.NewFromInt(100), Spent: decimal.NewFromInt(200)}}

	r := Detect([]*domain.Transaction{expense("Dining", 200, day)}, budgets, time.UTC)

	assert.Empty(t, r.UnusualTransactions)
	assert.Len(t, r.BudgetAnomalies, 1)
	assert.Empty(t, r.Spikes)
}
