package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lootlog/internal/model"
)

func purchase(title, date, price string, currency model.Currency, status model.Status) model.Transaction {
	txn := model.DefaultTransaction(date)
	txn.Title = title
	txn.Price = decimal.RequireFromString(price)
	txn.Currency = currency
	txn.Status = status
	return txn
}

func assertDecimal(t *testing.T, expected string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(got), "expected %s, got %s", expected, got)
}

func TestToEUR(t *testing.T) {
	tests := []struct {
		name     string
		usdRate  string
		price    string
		currency model.Currency
		expected string
	}{
		{name: "eur unchanged", usdRate: "0.92", price: "10", currency: model.CurrencyEUR, expected: "10"},
		{name: "usd fallback", usdRate: "0.92", price: "10", currency: model.CurrencyUSD, expected: "9.2"},
		{name: "gbp fallback", usdRate: "0.92", price: "10", currency: model.CurrencyGBP, expected: "11.7"},
		{name: "jpy fallback", usdRate: "0.92", price: "1000", currency: model.CurrencyJPY, expected: "6.2"},
		{name: "usd live rate", usdRate: "0.46", price: "10", currency: model.CurrencyUSD, expected: "4.6"},
		{name: "gbp follows usd", usdRate: "0.46", price: "10", currency: model.CurrencyGBP, expected: "5.85"},
		{name: "unknown currency taken as eur", usdRate: "0.92", price: "3", currency: model.Currency("CHF"), expected: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := NewConverter(decimal.RequireFromString(tt.usdRate))
			require.NoError(t, err)
			assertDecimal(t, tt.expected, conv.ToEUR(decimal.RequireFromString(tt.price), tt.currency))
		})
	}
}

func TestNewConverterRejectsBadRate(t *testing.T) {
	for _, rate := range []string{"0", "-1"} {
		_, err := NewConverter(decimal.RequireFromString(rate))
		require.ErrorIs(t, err, ErrInvalidRate)
	}
}

func TestCompute(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		purchase("Hades", "2024-03-02", "20", model.CurrencyEUR, model.StatusCompleted),
		purchase("Celeste", "2024-03-10", "10", model.CurrencyUSD, model.StatusPlaying),
		purchase("Tunic", "2024-02-20", "20", model.CurrencyEUR, model.StatusCompleted),
		purchase("Outer Wilds", "2023-03-01", "30", model.CurrencyEUR, model.StatusBacklog),
	}

	o := Compute(txns, now, DefaultConverter())

	assert.Equal(t, 4, o.Purchases)
	assert.Equal(t, 2, o.Completed)
	assertDecimal(t, "79.2", o.TotalSpent)
	assertDecimal(t, "19.8", o.AveragePrice)

	assert.Equal(t, Period{Year: 2024, Month: time.March, Purchases: 2, Completed: 1, Spent: o.ThisMonth.Spent}, o.ThisMonth)
	assertDecimal(t, "29.2", o.ThisMonth.Spent)
	assert.Equal(t, time.February, o.LastMonth.Month)
	assert.Equal(t, 1, o.LastMonth.Purchases)

	assert.Equal(t, Trends{Purchases: 100, Spent: 46, Completed: 0}, o.Trends)
}

func TestComputeJanuaryComparesWithDecember(t *testing.T) {
	now := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		purchase("Balatro", "2023-12-24", "15", model.CurrencyEUR, model.StatusPlaying),
	}

	o := Compute(txns, now, nil)

	assert.Equal(t, 2023, o.LastMonth.Year)
	assert.Equal(t, time.December, o.LastMonth.Month)
	assert.Equal(t, 1, o.LastMonth.Purchases)
	assert.Equal(t, -100, o.Trends.Purchases)
}

func TestComputeEmpty(t *testing.T) {
	o := Compute(nil, time.Now(), nil)

	assert.Zero(t, o.Purchases)
	assert.True(t, o.TotalSpent.IsZero())
	assert.True(t, o.AveragePrice.IsZero())
	assert.Equal(t, Trends{}, o.Trends)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		curr, prev string
		expected   int
	}{
		{curr: "0", prev: "0", expected: 0},
		{curr: "5", prev: "0", expected: 100},
		{curr: "15", prev: "10", expected: 50},
		{curr: "5", prev: "10", expected: -50},
		{curr: "2", prev: "3", expected: -33},
	}

	for _, tt := range tests {
		t.Run(tt.curr+"/"+tt.prev, func(t *testing.T) {
			assert.Equal(t, tt.expected, percentChange(decimal.RequireFromString(tt.curr), decimal.RequireFromString(tt.prev)))
		})
	}
}

func TestCheckBudget(t *testing.T) {
	txns := []model.Transaction{
		purchase("Hades", "2024-03-02", "40", model.CurrencyEUR, model.StatusCompleted),
		purchase("Celeste", "2024-03-10", "50", model.CurrencyUSD, model.StatusPlaying),
		purchase("Tunic", "2024-02-20", "100", model.CurrencyEUR, model.StatusCompleted),
	}

	tests := []struct {
		name          string
		amount        string
		wantRemaining string
		wantPercent   string
		wantLevel     BudgetLevel
		wantOver      bool
	}{
		{name: "under budget", amount: "200", wantRemaining: "114", wantPercent: "43", wantLevel: BudgetOK},
		{name: "near the limit", amount: "100", wantRemaining: "14", wantPercent: "86", wantLevel: BudgetWarning},
		{name: "over budget caps percent", amount: "50", wantRemaining: "-36", wantPercent: "100", wantLevel: BudgetDanger, wantOver: true},
		{name: "zero budget", amount: "0", wantRemaining: "-86", wantPercent: "0", wantLevel: BudgetDanger, wantOver: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := model.Budget{Year: 2024, Month: time.March, Amount: decimal.RequireFromString(tt.amount)}

			status := CheckBudget(budget, txns, DefaultConverter())

			assertDecimal(t, "86", status.Spent)
			assertDecimal(t, tt.wantRemaining, status.Remaining)
			assertDecimal(t, tt.wantPercent, status.Percent.Round(0))
			assert.Equal(t, tt.wantLevel, status.Level)
			assert.Equal(t, tt.wantOver, status.Over)
		})
	}
}
