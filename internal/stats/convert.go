// Package stats computes spending totals, month-over-month trends and budget
// usage over stored purchases.
package stats

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/model"
)

// ErrInvalidRate is returned for a non-positive exchange rate.
var ErrInvalidRate = errors.New("exchange rate must be positive")

// Fallback rates to EUR, used when no live USD rate is configured.
var fallbackRates = map[model.Currency]decimal.Decimal{
	model.CurrencyEUR: decimal.NewFromInt(1),
	model.CurrencyUSD: decimal.RequireFromString("0.92"),
	model.CurrencyGBP: decimal.RequireFromString("1.17"),
	model.CurrencyJPY: decimal.RequireFromString("0.0062"),
}

// DefaultUSDRate is the fallback USD to EUR rate.
var DefaultUSDRate = fallbackRates[model.CurrencyUSD]

// Converter turns prices into EUR. GBP and JPY follow the USD rate: when the
// USD rate moves by some ratio against its fallback, so do they.
type Converter struct {
	usdRate decimal.Decimal
}

// NewConverter returns a converter for a USD to EUR rate.
func NewConverter(usdRate decimal.Decimal) (*Converter, error) {
	if !usdRate.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRate, usdRate)
	}
	return &Converter{usdRate: usdRate}, nil
}

// DefaultConverter converts with the fallback rates.
func DefaultConverter() *Converter {
	return &Converter{usdRate: DefaultUSDRate}
}

// ToEUR converts price from currency to EUR. Unknown currencies are taken
// as EUR.
func (c *Converter) ToEUR(price decimal.Decimal, currency model.Currency) decimal.Decimal {
	switch currency {
	case model.CurrencyUSD:
		return price.Mul(c.usdRate)
	case model.CurrencyGBP, model.CurrencyJPY:
		ratio := c.usdRate.Div(DefaultUSDRate)
		return price.Mul(fallbackRates[currency]).Mul(ratio)
	default:
		return price
	}
}
