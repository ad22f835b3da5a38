package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a normalized price snapshot for a symbol
type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent float64
	Volume        int64
	MarketCap     decimal.Decimal
	PE            float64
	High52Week    decimal.Decimal
	Low52Week     decimal.Decimal
	LastUpdated   time.Time
}

// CompanyInfo describes the issuer of a symbol
type CompanyInfo struct {
	Symbol   string
	Name     string
	Sector   string
	Industry string
}

// SymbolSearchResult is one match of a symbol search
type SymbolSearchResult struct {
	Symbol string
	Name   string
	Type   string
}

// QuoteProvider is the market-data collaborator. Implementations return an
// error wrapping ErrQuoteUnavailable when a symbol cannot be quoted.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	GetCompanyInfo(ctx context.Context, symbol string) (*CompanyInfo, error)
	SearchSymbols(ctx context.Context, query string) ([]SymbolSearchResult, error)
}
