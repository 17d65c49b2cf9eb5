package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date format for purchase dates.
const DateLayout = "2006-01-02"

// Transaction is a single normalized video-game purchase.
//
// Every field always carries a value once a transaction leaves the importer;
// defaults fill the gaps. Title is the only field without a default.
type Transaction struct {
	ID             string          `json:"id,omitempty"`
	Title          string          `json:"title"`
	Type           TransactionType `json:"type"`
	Price          decimal.Decimal `json:"price"`
	Currency       Currency        `json:"currency"`
	Platform       Platform        `json:"platform"`
	Genre          Genre           `json:"genre"`
	Store          string          `json:"store"`
	Status         Status          `json:"status"`
	PurchaseDate   string          `json:"purchase_date"`
	Notes          string          `json:"notes"`
	ParentGameName string          `json:"parent_game_name,omitempty"`

	// Set by storage; not part of the imported payload.
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// DefaultTransaction returns a transaction holding every default value,
// with the purchase date set to today.
func DefaultTransaction(today string) Transaction {
	return Transaction{
		Type:         DefaultType,
		Price:        decimal.Zero,
		Currency:     DefaultCurrency,
		Platform:     DefaultPlatform,
		Genre:        DefaultGenre,
		Status:       DefaultStatus,
		PurchaseDate: today,
	}
}

// PriceString renders the price with at least two decimal places and never
// rounds: 5 is "5.00", 9.999 stays "9.999".
func (t *Transaction) PriceString() string {
	if t.Price.Exponent() >= -2 {
		return t.Price.StringFixed(2)
	}
	return t.Price.String()
}

// ContentHash identifies a transaction by title, date, price and currency.
// It is informational only; imports never deduplicate on it.
func (t *Transaction) ContentHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Title,
		t.PurchaseDate,
		t.PriceString(),
		t.Currency)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
