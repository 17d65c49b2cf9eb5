package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/model"
)

// SetBudget creates or replaces the owner's budget for budget.Year and
// budget.Month. The amount is stored without rounding.
func (s *SQLiteStorage) SetBudget(ctx context.Context, ownerID string, budget model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return err
	}
	if err := validateBudget(&budget); err != nil {
		return err
	}
	if budget.Currency == "" {
		budget.Currency = model.BudgetCurrency
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (owner_id, year, month, amount, currency, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, year, month) DO UPDATE SET
			amount = excluded.amount,
			currency = excluded.currency,
			updated_at = excluded.updated_at`,
		ownerID,
		budget.Year,
		int(budget.Month),
		budget.Amount.String(),
		string(budget.Currency),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// GetBudget returns the owner's budget for one month, or common.ErrNotFound
// when none was set.
func (s *SQLiteStorage) GetBudget(ctx context.Context, ownerID string, year int, month time.Month) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	var (
		amount, currency string
		monthNum         int
		budget           model.Budget
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id, year, month, amount, currency, updated_at
		FROM budgets
		WHERE owner_id = ? AND year = ? AND month = ?`,
		ownerID, year, int(month),
	).Scan(&budget.OwnerID, &budget.Year, &monthNum, &amount, &currency, &budget.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	budget.Month = time.Month(monthNum)
	budget.Currency = model.Currency(currency)
	budget.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: stored budget %q", common.ErrDatabaseCorrupted, amount)
	}
	return &budget, nil
}
