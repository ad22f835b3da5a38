package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tells whether money came in or went out
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// MaxDescriptionLength bounds Transaction.Description
const MaxDescriptionLength = 200

// Transaction is a single income or expense record.
// Amount is signed: expenses are negative, income is positive.
type Transaction struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	Type        TransactionType
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.Amount.IsZero() {
		return fmt.Errorf("%w: transaction amount cannot be zero", ErrInvalidInput)
	}
	if !fitsPlaces(t.Amount, MoneyPlaces) {
		return fmt.Errorf("%w: transaction amount cannot have more than %d decimal places", ErrInvalidInput, MoneyPlaces)
	}
	if t.Category == "" {
		return fmt.Errorf("%w: transaction category cannot be empty", ErrInvalidInput)
	}
	if t.Description == "" {
		return fmt.Errorf("%w: transaction description cannot be empty", ErrInvalidInput)
	}
	if len([]rune(t.Description)) > MaxDescriptionLength {
		return fmt.Errorf("%w: transaction description must be less than %d characters", ErrInvalidInput, MaxDescriptionLength)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is required", ErrInvalidInput)
	}

	switch t.Type {
	case TransactionTypeIncome, TransactionTypeExpense:
	default:
		return fmt.Errorf("%w: transaction type must be income or expense", ErrInvalidInput)
	}

	return nil
}

// IsExpense reports whether the transaction is an expense
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsIncome reports whether the transaction is an income
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// Magnitude returns the absolute value of the amount
func (t *Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// NormalizeAmount applies the sign convention of the type to the amount:
// expenses become negative and income positive.
func (t *Transaction) NormalizeAmount() {
	if t.IsExpense() {
		t.Amount = t.Amount.Abs().Neg()
		return
	}
	t.Amount = t.Amount.Abs()
}

// TransactionFilter narrows a transaction listing. Zero fields do not filter.
type TransactionFilter struct {
	Category string
	Type     TransactionType
	From     time.Time
	To       time.Time
}

// Match reports whether the transaction passes the filter. From and To are inclusive.
func (f TransactionFilter) Match(t *Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	return true
}

// ParseTransactionType converts user input into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return TransactionType(s), nil
	}
	return "", errors.New("transaction type must be income or expense")
}
