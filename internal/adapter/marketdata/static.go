// Package marketdata provides in-process domain.QuoteProvider implementations.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// Entry is one symbol of a static price sheet
type Entry struct {
	Symbol        string  `mapstructure:"symbol"`
	Name          string  `mapstructure:"name"`
	Type          string  `mapstructure:"type"`
	Sector        string  `mapstructure:"sector"`
	Industry      string  `mapstructure:"industry"`
	Price         string  `mapstructure:"price"`
	Change        string  `mapstructure:"change"`
	ChangePercent float64 `mapstructure:"change_percent"`
	Volume        int64   `mapstructure:"volume"`
}

// Static serves quotes from an in-memory price sheet. It is safe for concurrent use.
type Static struct {
	mu     sync.RWMutex
	quotes map[string]domain.Quote
	info   map[string]domain.CompanyInfo
	kinds  map[string]string
}

// NewStatic creates an empty provider; every lookup is unavailable until Set is called
func NewStatic() *Static {
	return &Static{
		quotes: make(map[string]domain.Quote),
		info:   make(map[string]domain.CompanyInfo),
		kinds:  make(map[string]string),
	}
}

// LoadFile reads a price sheet (YAML, JSON or TOML) with a top level "quotes" list
func LoadFile(path string) (*Static, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read price sheet: %w", err)
	}

	var sheet struct {
		Quotes []Entry `mapstructure:"quotes"`
	}
	if err := v.Unmarshal(&sheet); err != nil {
		return nil, fmt.Errorf("unmarshal price sheet: %w", err)
	}

	s := NewStatic()
	for _, e := range sheet.Quotes {
		if err := s.Set(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Set adds or replaces a symbol
func (s *Static) Set(e Entry) error {
	symbol := domain.NormalizeSymbol(e.Symbol)
	if symbol == "" {
		return fmt.Errorf("%w: price sheet entry without symbol", domain.ErrInvalidInput)
	}
	price, err := decimal.NewFromString(e.Price)
	if err != nil {
		return fmt.Errorf("%w: invalid price %q for %s", domain.ErrInvalidInput, e.Price, symbol)
	}
	change := decimal.Zero
	if e.Change != "" {
		if change, err = decimal.NewFromString(e.Change); err != nil {
			return fmt.Errorf("%w: invalid change %q for %s", domain.ErrInvalidInput, e.Change, symbol)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.quotes[symbol] = domain.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: e.ChangePercent,
		Volume:        e.Volume,
		LastUpdated:   now,
	}
	if e.Name != "" {
		s.info[symbol] = domain.CompanyInfo{Symbol: symbol, Name: e.Name, Sector: e.Sector, Industry: e.Industry}
	}
	s.kinds[symbol] = e.Type
	return nil
}

// GetQuote returns the sheet price of symbol
func (s *Static) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = domain.NormalizeSymbol(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s: %w", symbol, domain.ErrQuoteUnavailable)
	}
	return &q, nil
}

// GetCompanyInfo returns the issuer details of symbol
func (s *Static) GetCompanyInfo(ctx context.Context, symbol string) (*domain.CompanyInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = domain.NormalizeSymbol(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.info[symbol]
	if !ok {
		return nil, fmt.Errorf("no company info for %s: %w", symbol, domain.ErrQuoteUnavailable)
	}
	return &info, nil
}

// SearchSymbols matches query case-insensitively against symbols and names, ordered by symbol
func (s *Static) SearchSymbols(ctx context.Context, query string) ([]domain.SymbolSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []domain.SymbolSearchResult{}
	if query == "" {
		return results, nil
	}
	for symbol := range s.quotes {
		name := s.info[symbol].Name
		if strings.Contains(strings.ToLower(symbol), query) || strings.Contains(strings.ToLower(name), query) {
			results = append(results, domain.SymbolSearchResult{Symbol: symbol, Name: name, Type: s.kinds[symbol]})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })
	return results, nil
}

// Len returns the number of quoted symbols
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}

var _ domain.QuoteProvider = (*Static)(nil)
