// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/lootlog/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// SaveTransactions writes every transaction or none of them.
	SaveTransactions(ctx context.Context, ownerID string, transactions []model.Transaction) error
	SaveTransaction(ctx context.Context, ownerID string, transaction model.Transaction) error
	// ListTransactions returns the owner's purchases, newest first. A zero
	// limit returns all of them.
	ListTransactions(ctx context.Context, ownerID string, limit int) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	CountTransactions(ctx context.Context, ownerID string) (int, error)

	// Budget operations
	SetBudget(ctx context.Context, ownerID string, budget model.Budget) error
	GetBudget(ctx context.Context, ownerID string, year int, month time.Month) (*model.Budget, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Close() error
}
