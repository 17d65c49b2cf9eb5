package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCurrency is the currency every budget is kept in.
const BudgetCurrency = CurrencyEUR

// Budget is an owner's spending limit for one calendar month.
type Budget struct {
	UpdatedAt time.Time
	Amount    decimal.Decimal
	OwnerID   string
	Currency  Currency
	Year      int
	Month     time.Month
}

// BudgetPeriod returns the year and month a budget for t belongs to.
func BudgetPeriod(t time.Time) (int, time.Month) {
	return t.Year(), t.Month()
}
