package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// AddHoldingInput represents the input for adding a holding
type AddHoldingInput struct {
	Symbol     string
	Name       string
	Shares     decimal.Decimal
	AvgCost    decimal.Decimal
	Sector     string
	AssetClass domain.AssetClass
}

// UpdateHoldingInput represents a partial holding update. Nil fields are left unchanged.
type UpdateHoldingInput struct {
	Symbol     *string
	Name       *string
	Shares     *decimal.Decimal
	AvgCost    *decimal.Decimal
	Sector     *string
	AssetClass *domain.AssetClass
}

// RefreshResult reports which symbols were re-quoted. Symbols without a
// quote keep their previous price and are listed in Unavailable.
type RefreshResult struct {
	Updated     []string
	Unavailable []string
}

// PortfolioService manages holdings and keeps their derived fields current
type PortfolioService struct {
	HoldingRepo domain.HoldingRepository
	HistoryRepo domain.ValueHistoryRepository
	Quotes      domain.QuoteProvider
	Logger      zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(holdingRepo domain.HoldingRepository, historyRepo domain.ValueHistoryRepository, quotes domain.QuoteProvider, logger zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		HoldingRepo: holdingRepo,
		HistoryRepo: historyRepo,
		Quotes:      quotes,
		Logger:      logger,
	}
}

// AddHolding quotes a symbol and adds it to the portfolio
// Logic:
//  1. Fetch a quote (required) and company info (optional, fills name and sector)
//  2. Validate and save the holding
//  3. Recompute every holding's derived fields and persist them
func (s *PortfolioService) AddHolding(ctx context.Context, input AddHoldingInput) (*domain.Holding, error) {
	symbol := domain.NormalizeSymbol(input.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: holding symbol cannot be empty", domain.ErrInvalidInput)
	}

	assetClass := input.AssetClass
	if assetClass == "" {
		assetClass = domain.AssetClassStock
	}

	h := &domain.Holding{
		ID:         uuid.New(),
		Symbol:     symbol,
		Name:       input.Name,
		Shares:     input.Shares,
		AvgCost:    input.AvgCost,
		Sector:     input.Sector,
		AssetClass: assetClass,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	if err := s.quote(ctx, h); err != nil {
		return nil, err
	}

	if err := s.HoldingRepo.Create(ctx, h); err != nil {
		return nil, err
	}

	holdings, err := s.recomputeAndSave(ctx)
	if err != nil {
		return nil, err
	}

	// the stored copy carries the recomputed derived fields
	for _, saved := range holdings {
		if saved.ID == h.ID {
			return saved, nil
		}
	}
	return h, nil
}

// UpdateHolding applies a partial update. A changed symbol is re-quoted.
func (s *PortfolioService) UpdateHolding(ctx context.Context, id uuid.UUID, input UpdateHoldingInput) (*domain.Holding, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	var h *domain.Holding
	for _, candidate := range holdings {
		if candidate.ID == id {
			h = candidate
			break
		}
	}
	if h == nil {
		return nil, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
	}

	requote := false
	if input.Symbol != nil {
		symbol := domain.NormalizeSymbol(*input.Symbol)
		requote = symbol != h.Symbol
		h.Symbol = symbol
	}
	if input.Name != nil {
		h.Name = *input.Name
	}
	if input.Shares != nil {
		h.Shares = *input.Shares
	}
	if input.AvgCost != nil {
		h.AvgCost = *input.AvgCost
	}
	if input.Sector != nil {
		h.Sector = *input.Sector
	}
	if input.AssetClass != nil {
		h.AssetClass = *input.AssetClass
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}

	if requote {
		if err := s.quote(ctx, h); err != nil {
			return nil, err
		}
	}

	Recompute(holdings)
	if err := s.HoldingRepo.SaveAll(ctx, holdings); err != nil {
		return nil, err
	}

	return h, nil
}

// RemoveHolding deletes a holding and recomputes the others
func (s *PortfolioService) RemoveHolding(ctx context.Context, id uuid.UUID) error {
	if err := s.HoldingRepo.Delete(ctx, id); err != nil {
		return err
	}
	_, err := s.recomputeAndSave(ctx)
	return err
}

// RefreshPrices re-quotes every holding sequentially.
// Logic:
//  1. For each holding, fetch a quote; a missing quote is reported as
//     unavailable and the holding keeps its previous price
//  2. Recompute and persist the holdings
//  3. Record a portfolio value snapshot
//
// Cancellation of ctx aborts the refresh before anything is saved.
func (s *PortfolioService) RefreshPrices(ctx context.Context) (*RefreshResult, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	result := &RefreshResult{}
	for _, h := range holdings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q, err := s.Quotes.GetQuote(ctx, h.Symbol)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			s.Logger.Warn().Err(err).Str("symbol", h.Symbol).Msg("quote unavailable, keeping previous price")
			result.Unavailable = append(result.Unavailable, h.Symbol)
			continue
		}

		h.ApplyQuote(*q)
		result.Updated = append(result.Updated, h.Symbol)
	}

	Recompute(holdings)
	if err := s.HoldingRepo.SaveAll(ctx, holdings); err != nil {
		return nil, fmt.Errorf("failed to save holdings: %w", err)
	}

	if err := s.snapshot(ctx, holdings); err != nil {
		return nil, err
	}

	s.Logger.Info().
		Int("updated", len(result.Updated)).
		Int("unavailable", len(result.Unavailable)).
		Msg("prices refreshed")

	return result, nil
}

// Summary aggregates the current holdings
func (s *PortfolioService) Summary(ctx context.Context) (*Summary, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	summary := Summarize(holdings)
	return &summary, nil
}

// SearchSymbols forwards a symbol search to the quote provider
func (s *PortfolioService) SearchSymbols(ctx context.Context, query string) ([]domain.SymbolSearchResult, error) {
	if query == "" {
		return nil, nil
	}
	return s.Quotes.SearchSymbols(ctx, query)
}

// History returns the value snapshots taken since the given time
func (s *PortfolioService) History(ctx context.Context, since time.Time) ([]*domain.ValuePoint, error) {
	if s.HistoryRepo == nil {
		return nil, nil
	}
	return s.HistoryRepo.List(ctx, since)
}

// quote fills the market fields of h, plus name and sector from company info when missing
func (s *PortfolioService) quote(ctx context.Context, h *domain.Holding) error {
	q, err := s.Quotes.GetQuote(ctx, h.Symbol)
	if err != nil {
		if errors.Is(err, domain.ErrQuoteUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, h.Symbol, err)
	}
	h.ApplyQuote(*q)

	if h.Name != "" && h.Sector != "" {
		return nil
	}

	info, err := s.Quotes.GetCompanyInfo(ctx, h.Symbol)
	if err != nil {
		s.Logger.Debug().Err(err).Str("symbol", h.Symbol).Msg("no company info")
		return nil
	}
	if h.Name == "" {
		h.Name = info.Name
	}
	if h.Sector == "" {
		h.Sector = info.Sector
	}
	return nil
}

func (s *PortfolioService) recomputeAndSave(ctx context.Context) ([]*domain.Holding, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	Recompute(holdings)
	if err := s.HoldingRepo.SaveAll(ctx, holdings); err != nil {
		return nil, fmt.Errorf("failed to save holdings: %w", err)
	}
	return holdings, nil
}

func (s *PortfolioService) snapshot(ctx context.Context, holdings []*domain.Holding) error {
	if s.HistoryRepo == nil || len(holdings) == 0 {
		return nil
	}

	point := &domain.ValuePoint{
		ID:          uuid.New(),
		Date:        time.Now(),
		MarketValue: decimal.Zero,
		CostBasis:   decimal.Zero,
	}
	for _, h := range holdings {
		point.MarketValue = point.MarketValue.Add(h.MarketValue)
		point.CostBasis = point.CostBasis.Add(h.CostBasis())
	}

	if err := s.HistoryRepo.Add(ctx, point); err != nil {
		return fmt.Errorf("failed to record portfolio value: %w", err)
	}
	return nil
}
