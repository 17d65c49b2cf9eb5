package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/model"
)

const transactionColumns = `id, owner_id, title, type, price, currency, platform, genre,
	store, status, purchase_date, notes, parent_game_name, created_at`

// SaveTransactions writes every transaction for the owner in a single
// database transaction. Either all rows are stored or none are.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, ownerID string, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	// Begin transaction; rollback is a no-op after commit
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveTransactionsTx(ctx, tx, ownerID, transactions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// SaveTransaction writes a single transaction for the owner.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, ownerID string, txn model.Transaction) error {
	return s.SaveTransactions(ctx, ownerID, []model.Transaction{txn})
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, ownerID string, transactions []model.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, owner_id, title, type, price, currency, platform, genre,
			store, status, purchase_date, notes, parent_game_name, created_at, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	// One timestamp for the whole batch
	createdAt := time.Now().UTC()
	for i := range transactions {
		txn := transactions[i]
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}

		// Parent game is NULL for standalone purchases
		var parent sql.NullString
		if txn.ParentGameName != "" {
			parent = sql.NullString{String: txn.ParentGameName, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			ownerID,
			txn.Title,
			string(txn.Type),
			// Stored as text so no digits are lost
			txn.PriceString(),
			string(txn.Currency),
			string(txn.Platform),
			string(txn.Genre),
			txn.Store,
			string(txn.Status),
			txn.PurchaseDate,
			txn.Notes,
			parent,
			createdAt,
			txn.ContentHash(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %q: %w", txn.Title, err)
		}
	}

	return nil
}

// ListTransactions returns the owner's purchases, newest first. A limit of
// zero returns every row.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, ownerID string, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = ?
		ORDER BY purchase_date DESC, created_at DESC, rowid DESC`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetTransaction returns one purchase by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// CountTransactions returns how many purchases the owner has stored.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, ownerID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE owner_id = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var (
		txn                                model.Transaction
		txnType, currency, platform, genre string
		status, price                      string
		parent                             sql.NullString
	)

	err := row.Scan(
		&txn.ID,
		&txn.OwnerID,
		&txn.Title,
		&txnType,
		&price,
		&currency,
		&platform,
		&genre,
		&txn.Store,
		&status,
		&txn.PurchaseDate,
		&txn.Notes,
		&parent,
		&txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return txn, err
		}
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Price, err = decimal.NewFromString(price)
	if err != nil {
		return txn, fmt.Errorf("%w: stored price %q for %s", common.ErrDatabaseCorrupted, price, txn.ID)
	}
	txn.Type = model.TransactionType(txnType)
	txn.Currency = model.Currency(currency)
	txn.Platform = model.Platform(platform)
	txn.Genre = model.Genre(genre)
	txn.Status = model.Status(status)
	txn.ParentGameName = parent.String

	return txn, nil
}
