package anomaly

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// Severity grades a budget anomaly
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Utilization thresholds (percent) for budget anomalies
const (
	SevereOverUtilization = 150.0
	OverUtilization       = 110.0
	UnderUtilization      = 20.0
)

// SpikeMultiplier is how many times the mean daily spend a day must exceed to be a spike
const SpikeMultiplier = 2.5

// UnknownCategory annotates a spike whose dominant category cannot be determined
const UnknownCategory = "Unknown"

// BudgetAnomaly flags a budget whose utilization is out of the normal band
type BudgetAnomaly struct {
	Category    string
	Severity    Severity
	Utilization float64
	Description string
}

// Spike is a calendar day whose total spending is unusually high
type Spike struct {
	Date     time.Time // midnight of the day, in the location passed to Spikes
	Amount   decimal.Decimal
	Category string // dominant category of the day
}

// Report gathers the results of the three independent checks
type Report struct {
	UnusualTransactions []*domain.Transaction
	BudgetAnomalies     []BudgetAnomaly
	Spikes              []Spike
}

// Detect runs the outlier, budget and spike checks.
// Calendar days are taken in loc.
func Detect(transactions []*domain.Transaction, budgets []*domain.Budget, loc *time.Location) Report {
	return Report{
		UnusualTransactions: Outliers(transactions),
		BudgetAnomalies:     BudgetAnomalies(budgets),
		Spikes:              Spikes(transactions, loc),
	}
}

// Outliers returns the expenses whose magnitude exceeds Q3 + 1.5*IQR.
// Quartiles are taken by index on the sorted magnitudes (a[n/4], a[3n/4]),
// without interpolation. Input order is preserved.
func Outliers(transactions []*domain.Transaction) []*domain.Transaction {
	var magnitudes []decimal.Decimal
	for _, tx := range transactions {
		if tx.IsExpense() {
			magnitudes = append(magnitudes, tx.Magnitude())
		}
	}
	if len(magnitudes) == 0 {
		return nil
	}

	sort.Slice(magnitudes, func(i, j int) bool {
		return magnitudes[i].LessThan(magnitudes[j])
	})

	n := len(magnitudes)
	q1 := magnitudes[n/4]
	q3 := magnitudes[(3*n)/4]
	threshold := q3.Add(q3.Sub(q1).Mul(decimal.NewFromFloat(1.5)))

	var outliers []*domain.Transaction
	for _, tx := range transactions {
		if tx.IsExpense() && tx.Magnitude().GreaterThan(threshold) {
			outliers = append(outliers, tx)
		}
	}
	return outliers
}

// BudgetAnomalies grades each budget by utilization: above 150% is high,
// above 110% medium, below 20% low. Budgets in 20..110% are not reported.
func BudgetAnomalies(budgets []*domain.Budget) []BudgetAnomaly {
	var anomalies []BudgetAnomaly

	for _, b := range budgets {
		u := b.UtilizationRate()

		var severity Severity
		var description string
		switch {
		case u > SevereOverUtilization:
			severity = SeverityHigh
			description = fmt.Sprintf("Severely over budget at %.1f%% utilization", u)
		case u > OverUtilization:
			severity = SeverityMedium
			description = fmt.Sprintf("Over budget at %.1f%% utilization", u)
		case u < UnderUtilization:
			severity = SeverityLow
			description = fmt.Sprintf("Significantly under-utilized at %.1f%% utilization", u)
		default:
			continue
		}

		anomalies = append(anomalies, BudgetAnomaly{
			Category:    b.Category,
			Severity:    severity,
			Utilization: u,
			Description: description,
		})
	}

	return anomalies
}

// calendarDay identifies a day independently of any *time.Location
type calendarDay struct {
	year  int
	month time.Month
	day   int
}

type dayTotals struct {
	day        time.Time
	total      decimal.Decimal
	byCategory map[string]decimal.Decimal
}

// Spikes sums expenses per calendar day in loc and returns the days whose
// total exceeds SpikeMultiplier times the mean over days with any spending.
// No spending days means no spikes. The result is ordered by date.
// A nil loc means time.Local.
func Spikes(transactions []*domain.Transaction, loc *time.Location) []Spike {
	if loc == nil {
		loc = time.Local
	}
	days := make(map[calendarDay]*dayTotals)

	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		y, m, d := tx.Date.In(loc).Date()
		key := calendarDay{year: y, month: m, day: d}

		dt, ok := days[key]
		if !ok {
			dt = &dayTotals{day: time.Date(y, m, d, 0, 0, 0, 0, loc), total: decimal.Zero, byCategory: make(map[string]decimal.Decimal)}
			days[key] = dt
		}
		dt.total = dt.total.Add(tx.Magnitude())
		dt.byCategory[tx.Category] = dt.byCategory[tx.Category].Add(tx.Magnitude())
	}

	if len(days) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, dt := range days {
		sum = sum.Add(dt.total)
	}
	threshold := sum.Div(decimal.NewFromInt(int64(len(days)))).Mul(decimal.NewFromFloat(SpikeMultiplier))

	var spikes []Spike
	for _, dt := range days {
		if dt.total.GreaterThan(threshold) {
			spikes = append(spikes, Spike{
				Date:     dt.day,
				Amount:   dt.total,
				Category: dominantCategory(dt.byCategory),
			})
		}
	}

	sort.Slice(spikes, func(i, j int) bool {
		return spikes[i].Date.Before(spikes[j].Date)
	})

	return spikes
}

// dominantCategory returns the category with the highest sum, ties broken by name
func dominantCategory(byCategory map[string]decimal.Decimal) string {
	best := ""
	bestAmount := decimal.Zero
	for category, amount := range byCategory {
		if best == "" || amount.GreaterThan(bestAmount) ||
			(amount.Equal(bestAmount) && category < best) {
			best = category
			bestAmount = amount
		}
	}
	if best == "" {
		return UnknownCategory
	}
	return best
}
