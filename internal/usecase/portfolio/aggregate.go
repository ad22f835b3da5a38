package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AssetBucket is the share of the portfolio held in one asset class
type AssetBucket struct {
	Class      domain.AssetClass
	Value      decimal.Decimal
	Allocation float64 // percent of total market value
}

// Summary aggregates a holding set
type Summary struct {
	TotalValue         decimal.Decimal
	TotalCost          decimal.Decimal
	TotalReturn        decimal.Decimal
	TotalReturnPercent float64
	DailyChange        decimal.Decimal
	DailyChangePercent float64
	AssetAllocation    []AssetBucket // one entry per asset class, in domain.AssetClasses order
	Holdings           []*domain.Holding
	LastUpdated        time.Time
}

// Recompute refreshes the derived fields of every holding from the whole set:
// market value, total return, return percent and allocation.
// It is a full recompute and running it twice yields the same fields.
func Recompute(holdings []*domain.Holding) {
	total := decimal.Zero
	for _, h := range holdings {
		h.MarketValue = h.Shares.Mul(h.CurrentPrice)
		h.TotalReturn = h.MarketValue.Sub(h.CostBasis())
		h.TotalReturnPercent = 0
		if h.AvgCost.IsPositive() {
			h.TotalReturnPercent = h.CurrentPrice.Sub(h.AvgCost).Div(h.AvgCost).Mul(hundred).InexactFloat64()
		}
		total = total.Add(h.MarketValue)
	}

	for _, h := range holdings {
		h.Allocation = 0
		if total.IsPositive() {
			h.Allocation = h.MarketValue.Div(total).Mul(hundred).InexactFloat64()
		}
	}
}

// Summarize recomputes the holdings and aggregates them
// Logic:
//  1. Recompute derived fields
//  2. Total value, cost and return; return percent against cost
//  3. Daily change = Σ shares * per-share day change, as a percent of the previous value
//  4. Asset-class buckets sum their members' allocations
func Summarize(holdings []*domain.Holding) Summary {
	Recompute(holdings)

	s := Summary{
		TotalValue:  decimal.Zero,
		TotalCost:   decimal.Zero,
		DailyChange: decimal.Zero,
		Holdings:    holdings,
	}

	buckets := make(map[domain.AssetClass]*AssetBucket, len(domain.AssetClasses))
	s.AssetAllocation = make([]AssetBucket, len(domain.AssetClasses))
	for i, class := range domain.AssetClasses {
		s.AssetAllocation[i] = AssetBucket{Class: class, Value: decimal.Zero}
		buckets[class] = &s.AssetAllocation[i]
	}

	for _, h := range holdings {
		s.TotalValue = s.TotalValue.Add(h.MarketValue)
		s.TotalCost = s.TotalCost.Add(h.CostBasis())
		s.DailyChange = s.DailyChange.Add(h.Shares.Mul(h.DayChange))

		if b, ok := buckets[h.AssetClass]; ok {
			b.Value = b.Value.Add(h.MarketValue)
			b.Allocation += h.Allocation
		}
		if h.LastUpdated.After(s.LastUpdated) {
			s.LastUpdated = h.LastUpdated
		}
	}

	s.TotalReturn = s.TotalValue.Sub(s.TotalCost)
	if s.TotalCost.IsPositive() {
		s.TotalReturnPercent = s.TotalReturn.Div(s.TotalCost).Mul(hundred).InexactFloat64()
	}

	previous := s.TotalValue.Sub(s.DailyChange)
	if s.TotalValue.IsPositive() && !previous.IsZero() {
		s.DailyChangePercent = s.DailyChange.Div(previous).Mul(hundred).InexactFloat64()
	}

	return s
}
