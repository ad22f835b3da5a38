package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGoal() Goal {
	return Goal{
		Name:     "Emergency fund",
		Target:   decimal.NewFromInt(1000),
		Current:  decimal.NewFromInt(200),
		Deadline: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		Category: GoalCategoryEmergency,
		Priority: GoalPriorityHigh,
	}
}

func TestGoal_Validate(t *testing.T) {
	g := validGoal()
	assert.NoError(t, g.Validate())

	over := validGoal()
	over.Current = decimal.NewFromInt(1001)
	assert.ErrorContains(t, over.Validate(), "between 0 and target")

	badCategory := validGoal()
	badCategory.Category = "yacht"
	assert.ErrorContains(t, badCategory.Validate(), "unknown goal category")

	badPriority := validGoal()
	badPriority.Priority = "urgent"
	assert.ErrorIs(t, badPriority.Validate(), ErrInvalidInput)

	negative := validGoal()
	contribution := decimal.NewFromInt(-5)
	negative.MonthlyContribution = &contribution
	assert.ErrorContains(t, negative.Validate(), "monthly contribution cannot be negative")

	precise := validGoal()
	precise.Target = decimal.RequireFromString("1000.00005")
	assert.ErrorContains(t, precise.Validate(), "more than 4 decimal places")

	g = validGoal()
	assert.ErrorIs(t, g.Contribute(decimal.RequireFromString("0.00001"), time.Now()), ErrInvalidInput)
	assert.True(t, g.Current.Equal(decimal.NewFromInt(200)))
}

func TestGoal_ContributeIsCappedAtTarget(t *testing.T) {
	g := validGoal()
	at := time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC)

	require.NoError(t, g.Contribute(decimal.NewFromInt(300), at))
	assert.True(t, g.Current.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, at, g.UpdatedAt)

	require.NoError(t, g.Contribute(decimal.NewFromInt(5000), at))
	assert.True(t, g.Current.Equal(g.Target), "current must never exceed target")
	assert.True(t, g.IsAchieved())
	assert.InDelta(t, 100.0, g.Progress(), 1e-9)

	assert.Error(t, g.Contribute(decimal.Zero, at))
}
