// Package storage provides the data persistence layer for loot.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/lootlog/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidLimit       = errors.New("limit must not be negative")
	ErrInvalidBudget      = errors.New("invalid budget")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if strings.TrimSpace(txn.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidTransaction)
	}
	if txn.Price.IsNegative() {
		return fmt.Errorf("%w: negative price", ErrInvalidTransaction)
	}
	if txn.PurchaseDate == "" {
		return fmt.Errorf("%w: missing purchase date", ErrInvalidTransaction)
	}
	return nil
}

// validateBudget checks the fields every stored budget needs.
func validateBudget(budget *model.Budget) error {
	if budget.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidBudget)
	}
	if budget.Month < time.January || budget.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidBudget, budget.Month)
	}
	if budget.Year <= 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidBudget, budget.Year)
	}
	return nil
}
