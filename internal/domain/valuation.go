package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuedAsset is an AssetBalance with its USD value computed exactly once.
// Every consumer (row rendering, aggregate totals, portfolio percentage)
// must read CalculatedTotalValue instead of recomputing, so that per-row
// figures and totals cannot drift apart.
type ValuedAsset struct {
	AssetBalance
	CalculatedTotalValue decimal.Decimal `json:"calculatedTotalValue"`
}

// PortfolioValuation is the result of valuing one account's balances.
// Decimal fields render as strings to avoid precision loss in UI layers.
type PortfolioValuation struct {
	ID             string          `json:"id,omitempty"`
	Account        string          `json:"account,omitempty"`
	Platform       string          `json:"platform,omitempty"`
	Timestamp      time.Time       `json:"ts"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	AvailableValue decimal.Decimal `json:"availableValue"`
	FrozenValue    decimal.Decimal `json:"frozenValue"`
	PerAsset       []ValuedAsset   `json:"perAsset"`
}

// ValuationRecord bundles a valuation with the log index it originated from.
type ValuationRecord struct {
	Index     uint64
	Valuation PortfolioValuation
}
