package valuation

import "github.com/shopspring/decimal"

// Defaults below are stop-gap guards against upstream data quality
// issues observed in live exchange feeds, not domain law. Deployments
// that need different behavior override them via Options or config.

// defaultDustThreshold: exchange-reported USD values at or below one
// cent are rounding noise for dust positions and are ignored.
var defaultDustThreshold = decimal.NewFromFloat(0.01)

var defaultStablecoins = []string{"USDT", "USDC", "DAI", "BUSD"}

// Majors for which a reported unit price of exactly $1 is certainly a
// placeholder rather than a market price.
var defaultPlaceholderRejects = []string{"BTC", "ETH", "SOL", "BNB"}

func defaultStablecoinSet() map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStablecoins))
	for _, c := range defaultStablecoins {
		set[c] = struct{}{}
	}
	return set
}

func defaultPlaceholderRejectSet() map[string]struct{} {
	set := make(map[string]struct{}, len(defaultPlaceholderRejects))
	for _, c := range defaultPlaceholderRejects {
		set[c] = struct{}{}
	}
	return set
}

// DefaultPriceBounds returns the plausibility windows applied to
// reported unit prices for the majors.
func DefaultPriceBounds() map[string]PriceRange {
	return map[string]PriceRange{
		"BTC": {Min: decimal.NewFromInt(10000), Max: decimal.NewFromInt(200000)},
		"ETH": {Min: decimal.NewFromInt(500), Max: decimal.NewFromInt(10000)},
	}
}

// ReferencePrices returns a table of rough per-asset prices usable as a
// last-resort display fallback via WithFallbackPrices. It is
// intentionally not wired in by default: a correctness-sensitive
// deployment must never value assets off this table.
func ReferencePrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(90000),
		"ETH": decimal.NewFromInt(3000),
		"SOL": decimal.NewFromInt(150),
		"BNB": decimal.NewFromInt(600),
	}
}
