package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LooseDecimal decodes numeric JSON fields from exchange payloads.
// Exchanges disagree on whether amounts are numbers or quoted strings,
// and dashboards upstream sometimes omit or null fields entirely.
// Any value that cannot be parsed decodes as zero instead of failing.
type LooseDecimal struct {
	decimal.Decimal
}

func LooseFromFloat(f float64) LooseDecimal {
	return LooseDecimal{decimal.NewFromFloat(f)}
}

func LooseFromDecimal(d decimal.Decimal) LooseDecimal {
	return LooseDecimal{d}
}

// LooseFromString parses an exchange-reported numeric string; anything
// unparseable becomes zero.
func LooseFromString(s string) LooseDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return LooseDecimal{decimal.Zero}
	}
	return LooseDecimal{d}
}

func (d *LooseDecimal) UnmarshalJSON(raw []byte) error {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" || s == `""` {
		d.Decimal = decimal.Zero
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := decimal.NewFromString(s)
	if err != nil {
		d.Decimal = decimal.Zero
		return nil
	}
	d.Decimal = parsed
	return nil
}

func (d LooseDecimal) MarshalJSON() ([]byte, error) {
	return d.Decimal.MarshalJSON()
}

// AssetBalance is a single asset position as reported by an exchange.
// Field availability varies per platform: Binance reports quantities only,
// Bybit reports wallet totals plus its own USD estimate.
type AssetBalance struct {
	Currency     string       `json:"currency"`
	Available    LooseDecimal `json:"available"`
	Frozen       LooseDecimal `json:"frozen"`
	Total        LooseDecimal `json:"total"`
	ValueUSD     LooseDecimal `json:"valueUSD,omitempty"`
	PricePerUnit LooseDecimal `json:"pricePerUnit,omitempty"`
}
