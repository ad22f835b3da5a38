package forecast

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// TrendDirection labels the sign of a trend slope
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// DirectionThreshold is the absolute slope (currency units per month) past which
// a trend stops being stable. It is not scaled to the series magnitude.
const DirectionThreshold = 50.0

// MinSeriesLength is the shortest series PredictNextMonth will extrapolate
const MinSeriesLength = 3

// seasonalFactors is a hand-tuned spending multiplier per calendar month
// (January first). It is a heuristic, not a fitted model.
var seasonalFactors = [12]float64{0.95, 0.9, 1.0, 1.05, 1.1, 1.0, 0.95, 0.9, 1.0, 1.05, 1.2, 1.3}

// Prediction is the next-month extrapolation of a monthly series.
// InsufficientData is set when the series was too short to extrapolate;
// every other field is then zero or neutral.
type Prediction struct {
	NextMonthSpending decimal.Decimal
	NextMonthIncome   decimal.Decimal
	Confidence        float64 // 0..100
	Direction         TrendDirection
	InsufficientData  bool
}

// Slope returns the least-squares slope of values over the indices 0..n-1
func Slope(values []float64) float64 {
	n := float64(len(values))
	if len(values) < 2 {
		return 0
	}

	sumX := n * (n - 1) / 2
	sumXX := n * (n - 1) * (2*n - 1) / 6
	var sumY, sumXY float64
	for i, v := range values {
		sumY += v
		sumXY += float64(i) * v
	}

	return (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
}

// Confidence converts the coefficient of variation of values into a 0..100
// score: the steadier the series, the higher the score. A zero mean scores 0.
func Confidence(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)
	if m == 0 {
		return 0
	}

	cov := stddev(values, m) / m
	return math.Max(0, math.Min(100, 100-cov*100))
}

// SeasonalFactor returns the spending multiplier for a calendar month
func SeasonalFactor(month time.Month) float64 {
	if month < time.January || month > time.December {
		return 1.0
	}
	return seasonalFactors[month-1]
}

// Direction labels a slope using the fixed DirectionThreshold
func Direction(slope float64) TrendDirection {
	switch {
	case slope > DirectionThreshold:
		return TrendIncreasing
	case slope < -DirectionThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// PredictNextMonth extrapolates spending and income one month ahead.
// Logic:
//  1. Series shorter than MinSeriesLength yield a neutral prediction
//  2. Spending = (mean + slope) * seasonal factor of now's month
//  3. Income = mean + slope, no seasonal adjustment
//  4. Confidence and direction come from the spending series
//
// Predicted amounts are rounded to whole currency units.
func PredictNextMonth(series []MonthlyTotals, now time.Time) Prediction {
	if len(series) < MinSeriesLength {
		return Prediction{
			NextMonthSpending: decimal.Zero,
			NextMonthIncome:   decimal.Zero,
			Direction:         TrendStable,
			InsufficientData:  true,
		}
	}

	spending := make([]float64, len(series))
	income := make([]float64, len(series))
	for i, m := range series {
		spending[i] = m.Spending.InexactFloat64()
		income[i] = m.Income.InexactFloat64()
	}

	spendingSlope := Slope(spending)
	incomeSlope := Slope(income)

	nextSpending := (mean(spending) + spendingSlope) * SeasonalFactor(now.Month())
	nextIncome := mean(income) + incomeSlope

	return Prediction{
		NextMonthSpending: decimal.NewFromFloat(nextSpending).Round(0),
		NextMonthIncome:   decimal.NewFromFloat(nextIncome).Round(0),
		Confidence:        Confidence(spending),
		Direction:         Direction(spendingSlope),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation around m
func stddev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)))
}

// Stability scores how steady values are: 100 - stddev/mean*100, floored at 0.
// A zero mean scores 0.
func Stability(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}
	return math.Max(0, 100-stddev(values, m)/m*100)
}
