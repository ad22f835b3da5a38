package patterns

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// Bucket is a labeled sum of expense magnitudes
type Bucket struct {
	Label  string
	Amount decimal.Decimal
}

// SpendingPattern holds three independent bucketings of the same expenses
type SpendingPattern struct {
	DayOfWeek   []Bucket // Sunday..Saturday
	TimeOfMonth []Bucket // Early, Mid, Late
	Seasonality []Bucket // Q1..Q4
}

var (
	monthTiers = []string{"Early (1-10)", "Mid (11-20)", "Late (21-31)"}
	quarters   = []string{"Q1 (Jan-Mar)", "Q2 (Apr-Jun)", "Q3 (Jul-Sep)", "Q4 (Oct-Dec)"}
)

// Analyze buckets the absolute amounts of expense transactions by weekday,
// day-of-month tier and calendar quarter, with dates taken in loc (nil means
// time.Local). Income is ignored.
func Analyze(transactions []*domain.Transaction, loc *time.Location) SpendingPattern {
	if loc == nil {
		loc = time.Local
	}
	p := SpendingPattern{
		DayOfWeek:   make([]Bucket, 7),
		TimeOfMonth: make([]Bucket, len(monthTiers)),
		Seasonality: make([]Bucket, len(quarters)),
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		p.DayOfWeek[d] = Bucket{Label: d.String(), Amount: decimal.Zero}
	}
	for i, label := range monthTiers {
		p.TimeOfMonth[i] = Bucket{Label: label, Amount: decimal.Zero}
	}
	for i, label := range quarters {
		p.Seasonality[i] = Bucket{Label: label, Amount: decimal.Zero}
	}

	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		amount := tx.Magnitude()
		date := tx.Date.In(loc)

		wd := date.Weekday()
		p.DayOfWeek[wd].Amount = p.DayOfWeek[wd].Amount.Add(amount)

		tier := tierOf(date.Day())
		p.TimeOfMonth[tier].Amount = p.TimeOfMonth[tier].Amount.Add(amount)

		q := (int(date.Month()) - 1) / 3
		p.Seasonality[q].Amount = p.Seasonality[q].Amount.Add(amount)
	}

	return p
}

func tierOf(day int) int {
	switch {
	case day <= 10:
		return 0
	case day <= 20:
		return 1
	default:
		return 2
	}
}

// Peak returns the bucket with the highest amount, the first one on ties
func Peak(buckets []Bucket) (Bucket, bool) {
	if len(buckets) == 0 {
		return Bucket{}, false
	}
	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.Amount.GreaterThan(best.Amount) {
			best = b
		}
	}
	return best, true
}
