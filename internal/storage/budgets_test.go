package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/model"
)

func TestSetAndGetBudget(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetBudget(ctx, testOwner, 2024, time.March)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.SetBudget(ctx, testOwner, model.Budget{
		Year: 2024, Month: time.March, Amount: decimal.RequireFromString("120.5"),
	}))

	got, err := store.GetBudget(ctx, testOwner, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, testOwner, got.OwnerID)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, time.March, got.Month)
	assert.Equal(t, model.CurrencyEUR, got.Currency)
	assert.True(t, decimal.RequireFromString("120.5").Equal(got.Amount))
	assert.False(t, got.UpdatedAt.IsZero())

	// Setting the same month again replaces the amount.
	require.NoError(t, store.SetBudget(ctx, testOwner, model.Budget{
		Year: 2024, Month: time.March, Amount: decimal.RequireFromString("99.999"),
	}))
	got, err = store.GetBudget(ctx, testOwner, 2024, time.March)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("99.999").Equal(got.Amount))

	// Other months and owners are separate.
	_, err = store.GetBudget(ctx, testOwner, 2024, time.April)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = store.GetBudget(ctx, "player-two", 2024, time.March)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetBudgetValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	tests := []struct {
		wantErr error
		name    string
		owner   string
		budget  model.Budget
	}{
		{
			name:    "empty owner",
			budget:  model.Budget{Year: 2024, Month: time.March, Amount: decimal.NewFromInt(10)},
			wantErr: ErrEmptyString,
		},
		{
			name:    "negative amount",
			owner:   testOwner,
			budget:  model.Budget{Year: 2024, Month: time.March, Amount: decimal.NewFromInt(-1)},
			wantErr: ErrInvalidBudget,
		},
		{
			name:    "month out of range",
			owner:   testOwner,
			budget:  model.Budget{Year: 2024, Month: 13, Amount: decimal.NewFromInt(10)},
			wantErr: ErrInvalidBudget,
		},
		{
			name:    "missing year",
			owner:   testOwner,
			budget:  model.Budget{Month: time.March, Amount: decimal.NewFromInt(10)},
			wantErr: ErrInvalidBudget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SetBudget(context.Background(), tt.owner, tt.budget)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
