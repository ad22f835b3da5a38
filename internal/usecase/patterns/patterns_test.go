package patterns

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

func expense(amount int64, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		Amount:   decimal.NewFromInt(-amount),
		Category: "Dining",
		Date:     date,
		Type:     domain.TransactionTypeExpense,
	}
}

func TestAnalyze(t *testing.T) {
	txs := []*domain.Transaction{
		// Sunday, early, Q1
		expense(40, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)),
		// Saturday, mid, Q2
		expense(60, time.Date(2025, time.May, 17, 0, 0, 0, 0, time.UTC)),
		// Wednesday, late, Q4
		expense(25, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)),
		// Sunday again, day 10 stays early
		expense(10, time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)),
		{
			Amount:   decimal.NewFromInt(5000),
			Category: "Salary",
			Date:     time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
			Type:     domain.TransactionTypeIncome,
		},
	}

	p := Analyze(txs, time.UTC)

	require.Len(t, p.DayOfWeek, 7)
	assert.Equal(t, "Sunday", p.DayOfWeek[0].Label)
	assert.Equal(t, "Saturday", p.DayOfWeek[6].Label)
	assert.True(t, p.DayOfWeek[time.Sunday].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.DayOfWeek[time.Saturday].Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, p.DayOfWeek[time.Wednesday].Amount.Equal(decimal.NewFromInt(25)))

	require.Len(t, p.TimeOfMonth, 3)
	assert.Equal(t, "Early (1-10)", p.TimeOfMonth[0].Label)
	assert.True(t, p.TimeOfMonth[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.TimeOfMonth[1].Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, p.TimeOfMonth[2].Amount.Equal(decimal.NewFromInt(25)))

	require.Len(t, p.Seasonality, 4)
	assert.Equal(t, "Q4 (Oct-Dec)", p.Seasonality[3].Label)
	assert.True(t, p.Seasonality[0].Amount.Equal(decimal.NewFromInt(40)))
	assert.True(t, p.Seasonality[1].Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, p.Seasonality[2].Amount.Equal(decimal.NewFromInt(10)))
	assert.True(t, p.Seasonality[3].Amount.Equal(decimal.NewFromInt(25)))
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	txs := []*domain.Transaction{
		expense(12, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)),
		expense(99, time.Date(2025, time.July, 22, 0, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, Analyze(txs, time.UTC), Analyze(txs, time.UTC))
}

func TestPeak(t *testing.T) {
	p := Analyze([]*domain.Transaction{
		expense(5, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)),
		expense(80, time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)),
	}, time.UTC)

	peak, ok := Peak(p.TimeOfMonth)
	require.True(t, ok)
	assert.Equal(t, "Late (21-31)", peak.Label)

	_, ok = Peak(nil)
	assert.False(t, ok)
}

func TestAnalyze_DatesTakenInLocation(t *testing.T) {
	// Saturday 22:00 UTC is already Sunday in Kathmandu
	npt := time.FixedZone("NPT", 5*3600+45*60)
	txs := []*domain.Transaction{
		expense(30, time.Date(2025, time.March, 29, 22, 0, 0, 0, time.UTC)),
		expense(20, time.Date(2025, time.March, 30, 9, 0, 0, 0, time.FixedZone("NPT", 5*3600+45*60))),
	}

	p := Analyze(txs, npt)

	assert.True(t, p.DayOfWeek[time.Sunday].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.DayOfWeek[time.Saturday].Amount.IsZero())
	assert.True(t, p.TimeOfMonth[2].Amount.Equal(decimal.NewFromInt(50)))
}
