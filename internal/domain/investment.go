package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValuePoint is a snapshot of the whole portfolio at a point in time.
// It tracks market value against cost basis (what was paid) so that
// performance can be followed between price refreshes.
type ValuePoint struct {
	ID          uuid.UUID
	Date        time.Time
	MarketValue decimal.Decimal
	CostBasis   decimal.Decimal
}

// Gain returns market value minus cost basis
func (p *ValuePoint) Gain() decimal.Decimal {
	return p.MarketValue.Sub(p.CostBasis)
}
