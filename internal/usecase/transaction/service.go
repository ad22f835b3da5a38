package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// RecordTransactionInput represents the input for recording a transaction.
// The sign of Amount is ignored: it is derived from Type.
type RecordTransactionInput struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time // Optional: defaults to now
	Type        domain.TransactionType
}

// UpdateTransactionInput represents a partial transaction update. Nil fields are left unchanged.
type UpdateTransactionInput struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *time.Time
	Type        *domain.TransactionType
}

// TransactionService handles recording income and expenses
type TransactionService struct {
	TransactionRepo domain.TransactionRepository
	OpeningBalance  decimal.Decimal
}

// NewTransactionService creates a new TransactionService instance
func NewTransactionService(transactionRepo domain.TransactionRepository, openingBalance decimal.Decimal) *TransactionService {
	return &TransactionService{
		TransactionRepo: transactionRepo,
		OpeningBalance:  openingBalance,
	}
}

// Record stores a new transaction
// Logic:
//  1. Build the transaction and normalize the amount sign from its type
//  2. Validate transaction
//  3. Save using TransactionRepo.Create, which also adds an expense's
//     magnitude to the spent total of the category's budget
func (s *TransactionService) Record(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx := &domain.Transaction{
		ID:          uuid.New(),
		Amount:      input.Amount,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		Date:        date,
		Type:        input.Type,
	}
	tx.NormalizeAmount()

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Update applies a partial update to a transaction.
// Budget spent totals are accumulated at record time and are not rewound here.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	tx, err := s.TransactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		tx.Amount = *input.Amount
	}
	if input.Category != nil {
		tx.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		tx.Description = strings.TrimSpace(*input.Description)
	}
	if input.Date != nil {
		tx.Date = *input.Date
	}
	if input.Type != nil {
		tx.Type = *input.Type
	}
	tx.NormalizeAmount()

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Delete removes a transaction
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.TransactionRepo.Delete(ctx, id)
}

// List returns the transactions matching filter, most recent first
func (s *TransactionService) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	return s.TransactionRepo.List(ctx, filter)
}

// Balance returns the opening balance plus income minus expenses
func (s *TransactionService) Balance(ctx context.Context) (decimal.Decimal, error) {
	transactions, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list transactions: %w", err)
	}
	return Balance(s.OpeningBalance, transactions), nil
}

// Balance folds transactions onto an opening balance
func Balance(opening decimal.Decimal, transactions []*domain.Transaction) decimal.Decimal {
	balance := opening
	for _, tx := range transactions {
		if tx.IsIncome() {
			balance = balance.Add(tx.Magnitude())
		} else {
			balance = balance.Sub(tx.Magnitude())
		}
	}
	return balance
}

// Totals is income and expense over a set of transactions
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal // magnitude
}

// Sum totals income and expenses
func Sum(transactions []*domain.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			t.Income = t.Income.Add(tx.Magnitude())
		case domain.TransactionTypeExpense:
			t.Expenses = t.Expenses.Add(tx.Magnitude())
		}
	}
	return t
}

// Categories returns the distinct categories used by transactions of the given type, in first-seen order
func Categories(transactions []*domain.Transaction, kind domain.TransactionType) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range transactions {
		if tx.Type == kind && !seen[tx.Category] {
			seen[tx.Category] = true
			out = append(out, tx.Category)
		}
	}
	return out
}
