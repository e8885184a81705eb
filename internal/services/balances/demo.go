package balances

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avoverin/coindash/internal/clients"
	"github.com/avoverin/coindash/internal/domain"
)

// demo portfolio baseline; quantities drift a little between polls so
// the dashboard has something to animate.
var demoHoldings = []struct {
	currency  string
	available float64
	frozen    float64
	price     float64
}{
	{currency: "BTC", available: 0.42, frozen: 0.08, price: 90000},
	{currency: "ETH", available: 5.5, frozen: 0, price: 3000},
	{currency: "SOL", available: 120, frozen: 30, price: 150},
	{currency: "USDT", available: 2500, frozen: 500},
	{currency: "PEPE", available: 1000000, frozen: 0}, // intentionally unpriced
}

// DemoFetcher produces canned balances for the demo trading mode.
type DemoFetcher struct {
	client *clients.DemoClient
}

func NewDemoFetcher(client *clients.DemoClient) *DemoFetcher {
	return &DemoFetcher{client: client}
}

func (f *DemoFetcher) FetchBalances(_ context.Context) ([]domain.AssetBalance, error) {
	result := make([]domain.AssetBalance, 0, len(demoHoldings))
	for _, h := range demoHoldings {
		available := decimal.NewFromFloat(h.available * f.client.Drift(0.02))
		frozen := decimal.NewFromFloat(h.frozen)

		b := domain.AssetBalance{
			Currency:  h.currency,
			Available: domain.LooseFromDecimal(available),
			Frozen:    domain.LooseFromDecimal(frozen),
			Total:     domain.LooseFromDecimal(available.Add(frozen)),
		}
		if h.price > 0 {
			b.PricePerUnit = domain.LooseFromFloat(h.price * f.client.Drift(0.01))
		}
		result = append(result, b)
	}

	return result, nil
}
