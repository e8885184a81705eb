package valuation

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avoverin/coindash/internal/domain"
)

func balance(currency string, available, frozen, total, valueUSD, price float64) domain.AssetBalance {
	return domain.AssetBalance{
		Currency:     currency,
		Available:    domain.LooseFromFloat(available),
		Frozen:       domain.LooseFromFloat(frozen),
		Total:        domain.LooseFromFloat(total),
		ValueUSD:     domain.LooseFromFloat(valueUSD),
		PricePerUnit: domain.LooseFromFloat(price),
	}
}

func TestValuateSingleAsset(t *testing.T) {
	tests := []struct {
		name     string
		in       domain.AssetBalance
		expected string
	}{
		{
			name:     "quantity times live price preferred",
			in:       balance("ETH", 2, 1, 3, 0, 3000),
			expected: "9000",
		},
		{
			name:     "zero total restored from available before valuation",
			in:       balance("BTC", 0.5, 0, 0, 0, 90000),
			expected: "45000",
		},
		{
			name:     "unit price derived from reported usd value",
			in:       balance("ADA", 100, 0, 100, 50, 0),
			expected: "50",
		},
		{
			name:     "reported usd value used when quantity has no price",
			in:       balance("DOT", 0, 0, 0, 123.45, 0),
			expected: "123.45",
		},
		{
			name:     "dust usd value ignored",
			in:       balance("XYZ", 5, 0, 5, 0.001, 0),
			expected: "0",
		},
		{
			name:     "usd value exactly at dust threshold ignored",
			in:       balance("XYZ", 5, 0, 5, 0.01, 0),
			expected: "0",
		},
		{
			name:     "stablecoin pegged to one dollar",
			in:       balance("USDT", 100, 0, 100, 0, 0),
			expected: "100",
		},
		{
			name:     "stablecoin total restored from available",
			in:       balance("USDC", 250, 50, 0, 0, 0),
			expected: "300",
		},
		{
			name:     "unknown asset without price degrades to zero",
			in:       balance("SHIB", 1000000, 0, 1000000, 0, 0),
			expected: "0",
		},
		{
			name:     "frozen-only quantity valued at reported price",
			in:       balance("ETH", 0, 1, 0, 0, 3000),
			expected: "3000",
		},
		{
			name:     "frozen-only quantity ignores untrusted placeholder price",
			in:       balance("BTC", 0, 1, 0, 0, 1),
			expected: "0",
		},
		{
			name:     "btc placeholder price of one rejected",
			in:       balance("BTC", 1, 0, 1, 0, 1),
			expected: "0",
		},
		{
			name:     "btc price outside sanity bounds rejected",
			in:       balance("BTC", 1, 0, 1, 0, 500000),
			expected: "0",
		},
		{
			name:     "eth price inside sanity bounds accepted",
			in:       balance("ETH", 1, 0, 1, 0, 2500),
			expected: "2500",
		},
		{
			name:     "empty record values to zero",
			in:       domain.AssetBalance{Currency: "BTC"},
			expected: "0",
		},
	}

	v := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := v.Valuate([]domain.AssetBalance{tc.in})
			require.Len(t, result.PerAsset, 1)
			require.True(t, result.PerAsset[0].CalculatedTotalValue.Equal(decimal.RequireFromString(tc.expected)),
				"got %s, want %s", result.PerAsset[0].CalculatedTotalValue, tc.expected)
		})
	}
}

func TestValuateEmptyInput(t *testing.T) {
	v := New()

	for _, in := range [][]domain.AssetBalance{nil, {}} {
		result := v.Valuate(in)
		require.True(t, result.TotalValue.IsZero())
		require.True(t, result.AvailableValue.IsZero())
		require.True(t, result.FrozenValue.IsZero())
		require.NotNil(t, result.PerAsset)
		require.Empty(t, result.PerAsset)
	}

	// JSON contract: empty portfolio serializes to an empty array, not null.
	payload, err := json.Marshal(v.Valuate(nil))
	require.NoError(t, err)
	require.Contains(t, string(payload), `"perAsset":[]`)
}

func TestValuateTotalsAndSplit(t *testing.T) {
	v := New()

	balances := []domain.AssetBalance{
		balance("BTC", 0.4, 0.1, 0.5, 0, 90000), // 45000, frozen 9000
		balance("USDT", 700, 300, 1000, 0, 0),   // 1000, frozen 300
		balance("DOT", 0, 0, 0, 42.5, 0),        // 42.50, all available
		balance("SHIB", 1000, 0, 1000, 0, 0),    // 0
	}

	result := v.Valuate(balances)

	require.True(t, result.TotalValue.Equal(decimal.RequireFromString("46042.5")), "total: %s", result.TotalValue)
	require.True(t, result.FrozenValue.Equal(decimal.RequireFromString("9300")), "frozen: %s", result.FrozenValue)
	require.True(t, result.AvailableValue.Equal(decimal.RequireFromString("36742.5")), "available: %s", result.AvailableValue)

	// sum property: the total is the rounded sum of the stored per-asset values
	sum := decimal.Zero
	for _, a := range result.PerAsset {
		sum = sum.Add(a.CalculatedTotalValue)
	}
	require.True(t, result.TotalValue.Equal(sum.Round(2)))

	// split property: sub-totals always add back to the total exactly
	require.True(t, result.AvailableValue.Add(result.FrozenValue).Equal(result.TotalValue))
}

func TestValuateIdempotent(t *testing.T) {
	v := New()
	balances := []domain.AssetBalance{
		balance("BTC", 0.4, 0.1, 0.5, 0, 90000),
		balance("USDT", 700, 300, 1000, 0, 0),
	}

	first := v.Valuate(balances)
	second := v.Valuate(balances)

	require.True(t, first.TotalValue.Equal(second.TotalValue))
	require.Len(t, second.PerAsset, len(first.PerAsset))
	for i := range first.PerAsset {
		require.True(t, first.PerAsset[i].CalculatedTotalValue.Equal(second.PerAsset[i].CalculatedTotalValue))
	}
}

func TestValuateFallbackPrices(t *testing.T) {
	// disabled by default: quantities without any price value to zero
	noFallback := New()
	result := noFallback.Valuate([]domain.AssetBalance{balance("BTC", 1, 1, 2, 0, 0)})
	require.True(t, result.TotalValue.IsZero())

	// enabled: the table supplies a last-resort display price
	withFallback := New(WithFallbackPrices(ReferencePrices()))
	result = withFallback.Valuate([]domain.AssetBalance{balance("BTC", 1, 1, 2, 0, 0)})
	require.True(t, result.TotalValue.Equal(decimal.NewFromInt(180000)), "total: %s", result.TotalValue)
	require.True(t, result.FrozenValue.Equal(decimal.NewFromInt(90000)))
}

func TestValuateOptions(t *testing.T) {
	t.Run("custom dust threshold", func(t *testing.T) {
		v := New(WithDustThreshold(decimal.NewFromInt(1)))
		result := v.Valuate([]domain.AssetBalance{balance("XYZ", 0, 0, 0, 0.5, 0)})
		require.True(t, result.TotalValue.IsZero())
	})

	t.Run("custom stablecoin set", func(t *testing.T) {
		v := New(WithStablecoins("EURC"))
		result := v.Valuate([]domain.AssetBalance{
			balance("EURC", 10, 0, 10, 0, 0),
			balance("USDT", 10, 0, 10, 0, 0), // no longer pegged
		})
		require.True(t, result.PerAsset[0].CalculatedTotalValue.Equal(decimal.NewFromInt(10)))
		require.True(t, result.PerAsset[1].CalculatedTotalValue.IsZero())
	})

	t.Run("bounds disabled entirely", func(t *testing.T) {
		v := New(WithPriceBounds(nil), WithPlaceholderRejects())
		result := v.Valuate([]domain.AssetBalance{balance("BTC", 1, 0, 1, 0, 1)})
		require.True(t, result.TotalValue.Equal(decimal.NewFromInt(1)))
	})
}

func TestValuateUntrustedJSONInput(t *testing.T) {
	// field shapes vary across exchange formats: quoted numbers, nulls,
	// missing fields and garbage must all decode without error
	raw := []byte(`[
		{"currency":"BTC","available":"0.5","frozen":null,"total":0,"pricePerUnit":"90000"},
		{"currency":"USDT","total":"100","available":100,"valueUSD":"oops"},
		{"currency":"DOGE"}
	]`)

	var balances []domain.AssetBalance
	require.NoError(t, json.Unmarshal(raw, &balances))

	result := New().Valuate(balances)
	require.True(t, result.PerAsset[0].CalculatedTotalValue.Equal(decimal.NewFromInt(45000)))
	require.True(t, result.PerAsset[1].CalculatedTotalValue.Equal(decimal.NewFromInt(100)))
	require.True(t, result.PerAsset[2].CalculatedTotalValue.IsZero())
	require.True(t, result.TotalValue.Equal(decimal.NewFromInt(45100)))
}
