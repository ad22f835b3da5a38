package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// valueHistoryRepository implements domain.ValueHistoryRepository
type valueHistoryRepository struct {
	db *DB
}

// NewValueHistoryRepository creates a new portfolio value history repository
func NewValueHistoryRepository(db *DB) domain.ValueHistoryRepository {
	return &valueHistoryRepository{db: db}
}

func scanValuePoint(row rowScanner) (*domain.ValuePoint, error) {
	var point domain.ValuePoint
	var marketValueStr, costBasisStr string

	if err := row.Scan(&point.ID, &point.Date, &marketValueStr, &costBasisStr); err != nil {
		return nil, err
	}

	var err error
	if point.MarketValue, err = parseDecimal("market_value", marketValueStr); err != nil {
		return nil, err
	}
	if point.CostBasis, err = parseDecimal("cost_basis", costBasisStr); err != nil {
		return nil, err
	}

	return &point, nil
}

// Add creates a new portfolio value history entry
func (r *valueHistoryRepository) Add(ctx context.Context, point *domain.ValuePoint) error {
	query := `
		INSERT INTO portfolio_value_history (id, date, market_value, cost_basis)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		point.ID,
		point.Date,
		point.MarketValue.String(),
		point.CostBasis.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio value history entry: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent portfolio value entry
func (r *valueHistoryRepository) GetLatest(ctx context.Context) (*domain.ValuePoint, error) {
	query := `
		SELECT id, date, market_value, cost_basis
		FROM portfolio_value_history
		ORDER BY date DESC
		LIMIT 1
	`

	point, err := scanValuePoint(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no portfolio value history found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest portfolio value: %w", err)
	}

	return point, nil
}

// List retrieves the entries taken at or after since, oldest first
func (r *valueHistoryRepository) List(ctx context.Context, since time.Time) ([]*domain.ValuePoint, error) {
	query := `
		SELECT id, date, market_value, cost_basis
		FROM portfolio_value_history
		WHERE date >= $1
		ORDER BY date
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio value history: %w", err)
	}
	defer rows.Close()

	var points []*domain.ValuePoint
	for rows.Next() {
		point, err := scanValuePoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio value history entry: %w", err)
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolio value history: %w", err)
	}

	return points, nil
}
