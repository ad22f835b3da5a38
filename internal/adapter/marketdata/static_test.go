package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

func TestStatic_GetQuote(t *testing.T) {
	ctx := context.Background()
	s := NewStatic()
	require.NoError(t, s.Set(Entry{Symbol: " aapl ", Name: "Apple Inc.", Price: "189.50", Change: "-1.25", ChangePercent: -0.65}))

	q, err := s.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("189.5")))
	assert.True(t, q.Change.Equal(decimal.RequireFromString("-1.25")))

	_, err = s.GetQuote(ctx, "MSFT")
	assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)

	_, err = s.GetCompanyInfo(ctx, "MSFT")
	assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)
}

func TestStatic_CanceledContext(t *testing.T) {
	s := NewStatic()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetQuote(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatic_SetRejectsBadEntries(t *testing.T) {
	s := NewStatic()

	assert.ErrorIs(t, s.Set(Entry{Price: "1"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Set(Entry{Symbol: "X", Price: "abc"}), domain.ErrInvalidInput)
	assert.Equal(t, 0, s.Len())
}

func TestStatic_SearchSymbols(t *testing.T) {
	ctx := context.Background()
	s := NewStatic()
	require.NoError(t, s.Set(Entry{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Type: "etf", Price: "250"}))
	require.NoError(t, s.Set(Entry{Symbol: "VNQ", Name: "Vanguard Real Estate ETF", Type: "reit", Price: "85"}))
	require.NoError(t, s.Set(Entry{Symbol: "AAPL", Name: "Apple Inc.", Type: "stock", Price: "190"}))

	got, err := s.SearchSymbols(ctx, "vanguard")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "VNQ", got[0].Symbol)
	assert.Equal(t, "reit", got[0].Type)

	got, err = s.SearchSymbols(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	sheet := `quotes:
  - symbol: aapl
    name: Apple Inc.
    sector: Technology
    price: 189.5
  - symbol: BND
    price: "72.10"
`
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	info, err := s.GetCompanyInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Technology", info.Sector)

	q, err := s.GetQuote(context.Background(), "bnd")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("72.1")))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read price sheet")
}
