package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseFullConfig(t *testing.T) {
	data := []byte(`
listen: ":9090"
wal_dir: /tmp/coindash-wal
accounts:
  - label: main
    platform: binance
    poll_interval: 30s
  - label: paper
    platform: demo
    demo_seed: 7
valuation:
  dust_threshold: "0.05"
  stablecoins: [USDT, USDC]
  fallback_prices:
    BTC: "90000"
  price_bounds:
    BTC: ["10000", "200000"]
    ETH: ["500", "10000"]
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, "/tmp/coindash-wal", cfg.WALDir)

	require.Len(t, cfg.Accounts, 2)
	require.Equal(t, "main", cfg.Accounts[0].Label)
	require.Equal(t, 30*time.Second, cfg.Accounts[0].PollInterval)
	require.Equal(t, int64(7), cfg.Accounts[1].DemoSeed)
	// omitted poll interval falls back to the default
	require.Equal(t, 15*time.Second, cfg.Accounts[1].PollInterval)

	require.True(t, cfg.Valuation.DustThreshold.Equal(decimal.RequireFromString("0.05")))
	require.Equal(t, []string{"USDT", "USDC"}, cfg.Valuation.Stablecoins)
	require.True(t, cfg.Valuation.FallbackPrices["BTC"].Equal(decimal.NewFromInt(90000)))
	require.True(t, cfg.Valuation.PriceBounds["ETH"].Min.Equal(decimal.NewFromInt(500)))

	// all four knobs map to valuator options
	require.Len(t, cfg.Valuation.Options(), 4)
}

func TestParseMinimalConfig(t *testing.T) {
	cfg, err := Parse([]byte("accounts:\n  - label: paper\n    platform: demo\n"))
	require.NoError(t, err)

	require.Equal(t, defaultListenAddr, cfg.ListenAddr)
	require.Equal(t, defaultWALDir, cfg.WALDir)
	require.Empty(t, cfg.Valuation.Options())
}

func TestParseRejectsInvalidConfigs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "no accounts", yaml: "listen: ':8080'\n"},
		{name: "empty label", yaml: "accounts:\n  - platform: demo\n"},
		{name: "unknown platform", yaml: "accounts:\n  - label: x\n    platform: kraken\n"},
		{name: "duplicate labels", yaml: "accounts:\n  - label: x\n    platform: demo\n  - label: x\n    platform: demo\n"},
		{name: "sub-second poll interval", yaml: "accounts:\n  - label: x\n    platform: demo\n    poll_interval: 100ms\n"},
		{name: "bad dust threshold", yaml: "accounts:\n  - label: x\n    platform: demo\nvaluation:\n  dust_threshold: lots\n"},
		{name: "bad fallback price", yaml: "accounts:\n  - label: x\n    platform: demo\nvaluation:\n  fallback_prices:\n    BTC: much\n"},
		{name: "bounds missing max", yaml: "accounts:\n  - label: x\n    platform: demo\nvaluation:\n  price_bounds:\n    BTC: [\"10\"]\n"},
		{name: "bounds inverted", yaml: "accounts:\n  - label: x\n    platform: demo\nvaluation:\n  price_bounds:\n    BTC: [\"20\", \"10\"]\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
		})
	}
}
