package goal

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// Pace compares the planned contribution with the required one
type Pace string

const (
	PaceAhead   Pace = "ahead"
	PaceOnTrack Pace = "on-track"
	PaceBehind  Pace = "behind"
)

// NoCompletion is the MonthsToCompletion of a goal nobody contributes to
const NoCompletion = -1

// AvailableIncomeShare is the assumed fraction of monthly income free for goals
const AvailableIncomeShare = 0.2

// Projection describes where a goal is heading.
//
// Probability is a rough heuristic combining the contribution ratio with the
// share of income assumed available; it is not a calibrated forecast.
type Projection struct {
	GoalID                      uuid.UUID
	GoalName                    string
	Current                     decimal.Decimal
	Target                      decimal.Decimal
	Remaining                   decimal.Decimal
	MonthsToDeadline            int
	RequiredMonthlyContribution decimal.Decimal
	MonthlyContribution         decimal.Decimal
	Pace                        Pace
	Probability                 float64 // 0..100
	MonthsToCompletion          int     // NoCompletion when nothing is contributed
	ProjectedCompletion         *time.Time
}

// MonthsUntil counts calendar months from now to deadline, ignoring days, minimum 1
func MonthsUntil(now, deadline time.Time) int {
	months := (deadline.Year()-now.Year())*12 + int(deadline.Month()) - int(now.Month())
	if months < 1 {
		return 1
	}
	return months
}

// RequiredMonthly is the contribution needed every month to meet the deadline
func RequiredMonthly(g *domain.Goal, now time.Time) decimal.Decimal {
	return g.Remaining().Div(decimal.NewFromInt(int64(MonthsUntil(now, g.Deadline))))
}

// Project computes the projection of a goal given the monthly income
// Logic:
//  1. required = remaining / months to deadline
//  2. pace: ahead above 110% of required, behind below 90%
//  3. probability = (contribution/required) * (20% of income/required) * 100, clamped to 0..100
//  4. months to completion = ceil(remaining / contribution)
func Project(g *domain.Goal, monthlyIncome decimal.Decimal, now time.Time) Projection {
	remaining := g.Remaining()
	months := MonthsUntil(now, g.Deadline)
	required := remaining.Div(decimal.NewFromInt(int64(months)))
	contribution := g.PlannedContribution()

	p := Projection{
		GoalID:                      g.ID,
		GoalName:                    g.Name,
		Current:                     g.Current,
		Target:                      g.Target,
		Remaining:                   remaining,
		MonthsToDeadline:            months,
		RequiredMonthlyContribution: required.Round(2),
		MonthlyContribution:         contribution,
		Pace:                        PaceOnTrack,
		MonthsToCompletion:          NoCompletion,
	}

	switch {
	case contribution.GreaterThan(required.Mul(decimal.NewFromFloat(1.1))):
		p.Pace = PaceAhead
	case contribution.LessThan(required.Mul(decimal.NewFromFloat(0.9))):
		p.Pace = PaceBehind
	}

	if !remaining.IsPositive() {
		p.Probability = 100
		p.MonthsToCompletion = 0
		done := now
		p.ProjectedCompletion = &done
		return p
	}

	r := required.InexactFloat64()
	c := contribution.InexactFloat64()
	available := monthlyIncome.InexactFloat64() * AvailableIncomeShare
	p.Probability = math.Max(0, math.Min(100, (c/r)*(available/r)*100))

	if contribution.IsPositive() {
		p.MonthsToCompletion = int(remaining.Div(contribution).Ceil().IntPart())
		at := now.AddDate(0, p.MonthsToCompletion, 0)
		p.ProjectedCompletion = &at
	}

	return p
}

// ProjectAll projects every goal, preserving order
func ProjectAll(goals []*domain.Goal, monthlyIncome decimal.Decimal, now time.Time) []Projection {
	out := make([]Projection, 0, len(goals))
	for _, g := range goals {
		out = append(out, Project(g, monthlyIncome, now))
	}
	return out
}

// priorityMultiplier scales the required contribution by priority
func priorityMultiplier(p domain.GoalPriority) decimal.Decimal {
	switch p {
	case domain.GoalPriorityHigh:
		return decimal.NewFromFloat(1.5)
	case domain.GoalPriorityLow:
		return decimal.NewFromFloat(0.7)
	default:
		return decimal.NewFromInt(1)
	}
}

// SurplusShare caps a suggested contribution as a fraction of the monthly surplus
const SurplusShare = 0.4

// SuggestedContribution proposes a monthly amount for a goal: the required
// contribution scaled by priority, capped at 40% of the monthly surplus and
// rounded to whole units. A non-positive surplus suggests nothing.
func SuggestedContribution(g *domain.Goal, monthlySurplus decimal.Decimal, now time.Time) decimal.Decimal {
	if !monthlySurplus.IsPositive() {
		return decimal.Zero
	}

	scaled := RequiredMonthly(g, now).Mul(priorityMultiplier(g.Priority))
	suggested := decimal.Min(scaled, monthlySurplus.Mul(decimal.NewFromFloat(SurplusShare)))

	return decimal.Max(decimal.Zero, suggested.Round(0))
}

// Allocation is the share of an amount assigned to a goal
type Allocation struct {
	GoalID uuid.UUID
	Amount decimal.Decimal
}

// MaxShare is the largest fraction of the remaining pool a single goal may take
const MaxShare = 0.3

const year = 365 * 24 * time.Hour

// score ranks goals by priority weight plus deadline urgency in [0, 1]
func score(g *domain.Goal, now time.Time) float64 {
	urgency := math.Max(0, 1-float64(g.Deadline.Sub(now))/float64(year))
	return float64(g.Priority.Weight()) + urgency
}

// Distribute splits available across unfinished goals.
// Logic:
//  1. Rank unfinished goals by priority weight + urgency, highest first
//  2. Each goal in turn takes min(needed, 30% of what is left)
//  3. Amounts are reported rounded to whole units
func Distribute(goals []*domain.Goal, available decimal.Decimal, now time.Time) []Allocation {
	if !available.IsPositive() {
		return nil
	}

	var active []*domain.Goal
	for _, g := range goals {
		if !g.IsAchieved() {
			active = append(active, g)
		}
	}
	if len(active) == 0 {
		return nil
	}

	sort.SliceStable(active, func(i, j int) bool {
		return score(active[i], now) > score(active[j], now)
	})

	var out []Allocation
	left := available
	share := decimal.NewFromFloat(MaxShare)
	for _, g := range active {
		if !left.IsPositive() {
			break
		}
		amount := decimal.Min(g.Remaining(), left.Mul(share))
		if amount.IsPositive() {
			out = append(out, Allocation{GoalID: g.ID, Amount: amount.Round(0)})
			left = left.Sub(amount)
		}
	}

	return out
}

// UpcomingDeadlines returns the goals due within months of now (overdue ones
// included), earliest deadline first
func UpcomingDeadlines(goals []*domain.Goal, months int, now time.Time) []*domain.Goal {
	cutoff := now.AddDate(0, months, 0)

	var out []*domain.Goal
	for _, g := range goals {
		if !g.Deadline.After(cutoff) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out
}

// Achievements returns the goals that reached their target
func Achievements(goals []*domain.Goal) []*domain.Goal {
	var out []*domain.Goal
	for _, g := range goals {
		if g.IsAchieved() {
			out = append(out, g)
		}
	}
	return out
}

// Progress summarizes saving progress over all goals
type Progress struct {
	TotalTarget decimal.Decimal
	TotalSaved  decimal.Decimal
	Average     float64 // mean progress percentage, 100 when there are no goals
}

// Summarize totals targets and savings and averages goal progress
func Summarize(goals []*domain.Goal) Progress {
	p := Progress{TotalTarget: decimal.Zero, TotalSaved: decimal.Zero, Average: 100}
	if len(goals) == 0 {
		return p
	}

	var sum float64
	for _, g := range goals {
		p.TotalTarget = p.TotalTarget.Add(g.Target)
		p.TotalSaved = p.TotalSaved.Add(g.Current)
		sum += g.Progress()
	}
	p.Average = sum / float64(len(goals))
	return p
}
