package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, amount, category, description, date, type`

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amountStr string

	if err := row.Scan(&tx.ID, &amountStr, &tx.Category, &tx.Description, &tx.Date, &tx.Type); err != nil {
		return nil, err
	}

	amount, err := parseDecimal("amount", amountStr)
	if err != nil {
		return nil, err
	}
	tx.Amount = amount

	return &tx, nil
}

// Create inserts a new transaction. An expense is added to the spent total
// of its category's budget in the same database transaction.
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO transactions (id, amount, category, description, date, type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = dbTx.ExecContext(ctx, query,
		tx.ID,
		tx.Amount.String(),
		tx.Category,
		tx.Description,
		tx.Date,
		string(tx.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if tx.IsExpense() {
		// Categories without a budget match no row
		_, err = dbTx.ExecContext(ctx, `UPDATE budgets SET spent = spent + $2 WHERE category = $1`,
			tx.Category, tx.Magnitude().String())
		if err != nil {
			return fmt.Errorf("failed to add spent amount: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	return tx, nil
}

// Update replaces every field of a stored transaction
func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $2, category = $3, description = $4, date = $5, type = $6
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.Amount.String(),
		tx.Category,
		tx.Description,
		tx.Date,
		string(tx.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return checkAffected(res, fmt.Errorf("transaction %s: %w", tx.ID, domain.ErrNotFound))
}

// Delete removes a transaction by its ID
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return checkAffected(res, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound))
}

// List retrieves the transactions matching the filter, most recent first
func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var conditions []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if !filter.From.IsZero() {
		add("date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("date <= $%d", filter.To)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
