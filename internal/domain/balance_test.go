package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLooseDecimalUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "json number", raw: `12.5`, expected: "12.5"},
		{name: "quoted number", raw: `"12.5"`, expected: "12.5"},
		{name: "integer", raw: `7`, expected: "7"},
		{name: "null", raw: `null`, expected: "0"},
		{name: "empty string", raw: `""`, expected: "0"},
		{name: "garbage", raw: `"n/a"`, expected: "0"},
		{name: "negative", raw: `"-3.2"`, expected: "-3.2"},
		{name: "scientific notation", raw: `1.5e3`, expected: "1500"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var d LooseDecimal
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &d))
			require.True(t, d.Equal(decimal.RequireFromString(tc.expected)),
				"got %s, want %s", d.Decimal, tc.expected)
		})
	}
}

func TestAssetBalancePartialPayload(t *testing.T) {
	// exchange payloads may carry any subset of the fields
	var b AssetBalance
	require.NoError(t, json.Unmarshal([]byte(`{"currency":"BTC","available":"0.25"}`), &b))

	require.Equal(t, "BTC", b.Currency)
	require.True(t, b.Available.Equal(decimal.RequireFromString("0.25")))
	require.True(t, b.Frozen.IsZero())
	require.True(t, b.Total.IsZero())
	require.True(t, b.ValueUSD.IsZero())
	require.True(t, b.PricePerUnit.IsZero())
}

func TestLooseDecimalMarshalRoundTrip(t *testing.T) {
	b := AssetBalance{Currency: "ETH", Available: LooseFromFloat(1.5)}
	payload, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded AssetBalance
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.True(t, decoded.Available.Equal(b.Available.Decimal))
}
