// Package testutil provides shared test fixtures backed by a real database.
package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/model"
	"github.com/Veraticus/lootlog/internal/service"
	"github.com/Veraticus/lootlog/internal/storage"
)

// TestOwner owns every purchase seeded by SetupTestDB.
const TestOwner = "test-owner"

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database seeded with purchases,
// all owned by TestOwner. The database is closed when the test ends.
func SetupTestDB(t *testing.T, purchases ...model.Transaction) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	db := &TestDB{Storage: store, t: t}
	if len(purchases) > 0 {
		db.Seed(purchases...)
	}
	return db
}

// Seed saves purchases for TestOwner or fails the test.
func (db *TestDB) Seed(purchases ...model.Transaction) {
	db.t.Helper()
	if err := db.Storage.SaveTransactions(context.Background(), TestOwner, purchases); err != nil {
		db.t.Fatalf("failed to seed purchases: %v", err)
	}
}

// MustList returns every purchase of TestOwner, newest first.
func (db *TestDB) MustList() []model.Transaction {
	db.t.Helper()
	txns, err := db.Storage.ListTransactions(context.Background(), TestOwner, 0)
	if err != nil {
		db.t.Fatalf("failed to list purchases: %v", err)
	}
	return txns
}

// Purchase builds a valid purchase with defaults for every other field.
func Purchase(title, price, date string) model.Transaction {
	txn := model.DefaultTransaction(date)
	txn.Title = title
	txn.Price = decimal.RequireFromString(price)
	return txn
}
