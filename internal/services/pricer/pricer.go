package pricer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Pricer resolves the current USD unit price of an asset. The summary
// service uses it to backfill missing price fields for exchanges that
// report quantities only.
type Pricer interface {
	GetPrice(ctx context.Context, currency string) (decimal.Decimal, error)
}
