package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

const holdingColumns = `id, symbol, name, shares, avg_cost, current_price, day_change, day_change_percent,
	sector, asset_class, last_updated, market_value, total_return, total_return_percent, allocation`

func scanHolding(row rowScanner) (*domain.Holding, error) {
	var h domain.Holding
	var shares, avgCost, price, dayChange, marketValue, totalReturn string

	err := row.Scan(
		&h.ID,
		&h.Symbol,
		&h.Name,
		&shares,
		&avgCost,
		&price,
		&dayChange,
		&h.DayChangePercent,
		&h.Sector,
		&h.AssetClass,
		&h.LastUpdated,
		&marketValue,
		&totalReturn,
		&h.TotalReturnPercent,
		&h.Allocation,
	)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		column string
		src    string
		dst    *decimal.Decimal
	}{
		{"shares", shares, &h.Shares},
		{"avg_cost", avgCost, &h.AvgCost},
		{"current_price", price, &h.CurrentPrice},
		{"day_change", dayChange, &h.DayChange},
		{"market_value", marketValue, &h.MarketValue},
		{"total_return", totalReturn, &h.TotalReturn},
	} {
		if *f.dst, err = parseDecimal(f.column, f.src); err != nil {
			return nil, err
		}
	}

	return &h, nil
}

const upsertHolding = `
	INSERT INTO holdings (id, symbol, name, shares, avg_cost, current_price, day_change, day_change_percent,
		sector, asset_class, last_updated, market_value, total_return, total_return_percent, allocation)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (id) DO UPDATE SET
		symbol = EXCLUDED.symbol,
		name = EXCLUDED.name,
		shares = EXCLUDED.shares,
		avg_cost = EXCLUDED.avg_cost,
		current_price = EXCLUDED.current_price,
		day_change = EXCLUDED.day_change,
		day_change_percent = EXCLUDED.day_change_percent,
		sector = EXCLUDED.sector,
		asset_class = EXCLUDED.asset_class,
		last_updated = EXCLUDED.last_updated,
		market_value = EXCLUDED.market_value,
		total_return = EXCLUDED.total_return,
		total_return_percent = EXCLUDED.total_return_percent,
		allocation = EXCLUDED.allocation
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveHolding(ctx context.Context, db execer, h *domain.Holding) error {
	_, err := db.ExecContext(ctx, upsertHolding,
		h.ID,
		h.Symbol,
		h.Name,
		h.Shares.String(),
		h.AvgCost.String(),
		h.CurrentPrice.String(),
		h.DayChange.String(),
		h.DayChangePercent,
		h.Sector,
		string(h.AssetClass),
		h.LastUpdated,
		h.MarketValue.String(),
		h.TotalReturn.String(),
		h.TotalReturnPercent,
		h.Allocation,
	)
	return err
}

// Create inserts a new holding
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	if err := saveHolding(ctx, r.db, holding); err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}
	return nil
}

// GetByID retrieves a holding by its ID
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE id = $1`

	h, err := scanHolding(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get holding by ID: %w", err)
	}

	return h, nil
}

// Delete removes a holding by its ID
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	return checkAffected(res, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound))
}

// List retrieves all holdings ordered by symbol
func (r *holdingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+holdingColumns+` FROM holdings ORDER BY symbol, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// SaveAll upserts every holding in a single database transaction
func (r *holdingRepository) SaveAll(ctx context.Context, holdings []*domain.Holding) error {
	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, h := range holdings {
		if err := saveHolding(ctx, dbTx, h); err != nil {
			return fmt.Errorf("failed to save holding %s: %w", h.Symbol, err)
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
