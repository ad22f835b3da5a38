package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetClass is the kind of instrument a holding is
type AssetClass string

const (
	AssetClassStock  AssetClass = "stock"
	AssetClassETF    AssetClass = "etf"
	AssetClassBond   AssetClass = "bond"
	AssetClassCrypto AssetClass = "crypto"
	AssetClassREIT   AssetClass = "reit"
)

// AssetClasses lists every asset class in display order
var AssetClasses = []AssetClass{AssetClassStock, AssetClassETF, AssetClassBond, AssetClassCrypto, AssetClassREIT}

// Holding is a position in a single security.
// MarketValue, TotalReturn, TotalReturnPercent and Allocation are derived
// and recomputed from the whole holding set (see usecase/portfolio).
type Holding struct {
	ID               uuid.UUID
	Symbol           string
	Name             string
	Shares           decimal.Decimal
	AvgCost          decimal.Decimal
	CurrentPrice     decimal.Decimal
	DayChange        decimal.Decimal // per share
	DayChangePercent float64
	Sector           string
	AssetClass       AssetClass
	LastUpdated      time.Time

	// Derived
	MarketValue        decimal.Decimal
	TotalReturn        decimal.Decimal
	TotalReturnPercent float64
	Allocation         float64 // percent of portfolio market value
}

// Validate ensures the holding adheres to domain rules
func (h *Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return fmt.Errorf("%w: holding symbol cannot be empty", ErrInvalidInput)
	}
	if h.Shares.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: holding shares must be positive", ErrInvalidInput)
	}
	if !fitsPlaces(h.Shares, SharePlaces) {
		return fmt.Errorf("%w: holding shares cannot have more than %d decimal places", ErrInvalidInput, SharePlaces)
	}
	if !fitsPlaces(h.AvgCost, MoneyPlaces) {
		return fmt.Errorf("%w: holding average cost cannot have more than %d decimal places", ErrInvalidInput, MoneyPlaces)
	}
	if h.AvgCost.IsNegative() {
		return fmt.Errorf("%w: holding average cost cannot be negative", ErrInvalidInput)
	}
	if h.CurrentPrice.IsNegative() {
		return fmt.Errorf("%w: holding price cannot be negative", ErrInvalidInput)
	}

	switch h.AssetClass {
	case AssetClassStock, AssetClassETF, AssetClassBond, AssetClassCrypto, AssetClassREIT:
	default:
		return fmt.Errorf("%w: unknown asset class %q", ErrInvalidInput, h.AssetClass)
	}

	return nil
}

// CostBasis returns shares * average cost
func (h *Holding) CostBasis() decimal.Decimal {
	return h.Shares.Mul(h.AvgCost)
}

// ApplyQuote copies the market fields of a quote onto the holding
func (h *Holding) ApplyQuote(q Quote) {
	h.CurrentPrice = q.Price
	h.DayChange = q.Change
	h.DayChangePercent = q.ChangePercent
	h.LastUpdated = q.LastUpdated
}

// NormalizeSymbol upper-cases and trims a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
