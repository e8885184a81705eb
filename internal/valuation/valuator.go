package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avoverin/coindash/internal/domain"
)

// Valuator turns raw exchange balance lists into a portfolio valuation.
// It is pure and stateless after construction: concurrent calls for
// different accounts are safe and repeated calls on the same input
// produce the same output. Malformed or missing fields never produce
// an error, every branch degrades to zero.
type Valuator struct {
	dustThreshold      decimal.Decimal
	stablecoins        map[string]struct{}
	fallbackPrices     map[string]decimal.Decimal
	priceBounds        map[string]PriceRange
	placeholderRejects map[string]struct{}
}

// PriceRange is a plausibility window for a reported unit price.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Option configures a Valuator.
type Option func(*Valuator)

// WithDustThreshold overrides the USD value below which an
// exchange-reported valueUSD is treated as rounding noise.
func WithDustThreshold(d decimal.Decimal) Option {
	return func(v *Valuator) {
		v.dustThreshold = d
	}
}

// WithStablecoins replaces the set of currencies assumed pegged to $1.
func WithStablecoins(currencies ...string) Option {
	return func(v *Valuator) {
		v.stablecoins = make(map[string]struct{}, len(currencies))
		for _, c := range currencies {
			v.stablecoins[c] = struct{}{}
		}
	}
}

// WithFallbackPrices enables the last-resort price table used when an
// asset has quantities but no price information at all. It is a display
// aid, not a source of truth; pass nil (the default) to disable it.
func WithFallbackPrices(prices map[string]decimal.Decimal) Option {
	return func(v *Valuator) {
		v.fallbackPrices = prices
	}
}

// WithPriceBounds replaces the plausibility windows applied to reported
// unit prices. A reported price outside its currency's window is
// discarded as bad upstream data.
func WithPriceBounds(bounds map[string]PriceRange) Option {
	return func(v *Valuator) {
		v.priceBounds = bounds
	}
}

// WithPlaceholderRejects replaces the set of currencies for which a
// reported unit price of exactly 1 is discarded. Some feeds emit a
// literal 1 where the real price is unknown, which is never plausible
// for the majors.
func WithPlaceholderRejects(currencies ...string) Option {
	return func(v *Valuator) {
		v.placeholderRejects = make(map[string]struct{}, len(currencies))
		for _, c := range currencies {
			v.placeholderRejects[c] = struct{}{}
		}
	}
}

// New creates a Valuator with the default dust threshold, stablecoin set
// and price bounds, and with the fallback price table disabled.
func New(opts ...Option) *Valuator {
	v := &Valuator{
		dustThreshold:      defaultDustThreshold,
		stablecoins:        defaultStablecoinSet(),
		priceBounds:        DefaultPriceBounds(),
		placeholderRejects: defaultPlaceholderRejectSet(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// DustThreshold returns the USD value at or below which reported
// valueUSD figures are treated as rounding noise. Enrichment layers use
// it to decide whether an asset still needs a price lookup.
func (v *Valuator) DustThreshold() decimal.Decimal {
	return v.dustThreshold
}

// Valuate computes the USD value of every balance and the portfolio
// totals. The total is rounded to 2 decimal places; the available and
// frozen sub-totals always sum back to it exactly.
func (v *Valuator) Valuate(balances []domain.AssetBalance) domain.PortfolioValuation {
	assets := make([]domain.ValuedAsset, 0, len(balances))

	sum := decimal.Zero
	frozenSum := decimal.Zero
	for _, b := range balances {
		valued := v.valuateOne(b)
		assets = append(assets, valued)

		sum = sum.Add(valued.CalculatedTotalValue)
		frozenSum = frozenSum.Add(v.frozenShare(valued))
	}

	total := sum.Round(2)
	frozen := frozenSum.Round(2)
	if frozen.GreaterThan(total) {
		frozen = total
	}

	return domain.PortfolioValuation{
		Timestamp:      time.Now().UTC(),
		TotalValue:     total,
		AvailableValue: total.Sub(frozen),
		FrozenValue:    frozen,
		PerAsset:       assets,
	}
}

// valuateOne applies the priority-ordered valuation rules to a single
// balance record and stores the result on the asset.
func (v *Valuator) valuateOne(b domain.AssetBalance) domain.ValuedAsset {
	// Exchanges occasionally report total as zero while the parts are
	// not; restore the invariant total = available + frozen first.
	if b.Total.IsZero() && b.Available.IsPositive() {
		b.Total = domain.LooseFromDecimal(b.Available.Add(b.Frozen.Decimal))
	}

	// Backfill a missing unit price from the reported USD value.
	// Values at or below the dust threshold are rounding noise and
	// must not leak back in through the derived price.
	if !b.PricePerUnit.IsPositive() && b.Total.IsPositive() &&
		b.ValueUSD.GreaterThan(v.dustThreshold) {
		b.PricePerUnit = domain.LooseFromDecimal(b.ValueUSD.Div(b.Total.Decimal))
	}

	price := v.trustedPrice(b.Currency, b.PricePerUnit.Decimal)

	var value decimal.Decimal
	switch {
	case b.Total.IsPositive() && price.IsPositive():
		value = b.Total.Mul(price)
	case b.ValueUSD.GreaterThan(v.dustThreshold):
		value = b.ValueUSD.Decimal
	case v.isStablecoin(b.Currency):
		value = b.Total.Decimal
	default:
		// last resort: value the raw quantities. A trusted reported
		// price still applies here (a frozen-only balance never enters
		// the total-based rule); the table only covers priceless assets.
		p := price
		if !p.IsPositive() {
			p = v.fallbackPrice(b.Currency)
		}
		value = b.Available.Mul(p).Add(b.Frozen.Mul(p))
	}

	return domain.ValuedAsset{
		AssetBalance:         b,
		CalculatedTotalValue: value,
	}
}

// frozenShare prorates an asset's stored value by its frozen quantity
// ratio. Assets with no reported total count entirely as available.
func (v *Valuator) frozenShare(a domain.ValuedAsset) decimal.Decimal {
	if !a.Total.IsPositive() || !a.Frozen.IsPositive() {
		return decimal.Zero
	}
	return a.CalculatedTotalValue.Mul(a.Frozen.Decimal).Div(a.Total.Decimal)
}

// trustedPrice discards reported unit prices that fail the plausibility
// checks: an exact $1 placeholder for a major, or a price outside the
// configured window for its currency.
func (v *Valuator) trustedPrice(currency string, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	if _, ok := v.placeholderRejects[currency]; ok && price.Equal(decimal.NewFromInt(1)) {
		return decimal.Zero
	}
	if bounds, ok := v.priceBounds[currency]; ok {
		if price.LessThan(bounds.Min) || price.GreaterThan(bounds.Max) {
			return decimal.Zero
		}
	}
	return price
}

func (v *Valuator) isStablecoin(currency string) bool {
	_, ok := v.stablecoins[currency]
	return ok
}

// fallbackPrice resolves the last-resort display price for a currency.
// Returns zero when the table is disabled or has no entry, which makes
// the final valuation rule degrade to zero.
func (v *Valuator) fallbackPrice(currency string) decimal.Decimal {
	if len(v.fallbackPrices) == 0 {
		return decimal.Zero
	}
	return v.fallbackPrices[currency]
}
