package pricer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// StaticPricer serves prices from a fixed table. Demo mode uses it so
// the dashboard never depends on exchange connectivity.
type StaticPricer struct {
	prices map[string]decimal.Decimal
}

func NewStaticPricer(prices map[string]decimal.Decimal) *StaticPricer {
	return &StaticPricer{prices: prices}
}

func (p *StaticPricer) GetPrice(_ context.Context, currency string) (decimal.Decimal, error) {
	price, ok := p.prices[currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no static price for %s", currency)
	}
	return price, nil
}
