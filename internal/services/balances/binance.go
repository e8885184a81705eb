package balances

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"github.com/avoverin/coindash/internal/domain"
)

// BinanceFetcher reads spot account balances. Binance reports free and
// locked quantities as strings and no USD figures, so records from this
// source rely on price enrichment for valuation.
type BinanceFetcher struct {
	client *binance.Client
}

func NewBinanceFetcher(client *binance.Client) *BinanceFetcher {
	return &BinanceFetcher{client: client}
}

func (f *BinanceFetcher) FetchBalances(ctx context.Context) ([]domain.AssetBalance, error) {
	account, err := f.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account balances")
	}

	result := make([]domain.AssetBalance, 0, len(account.Balances))
	for _, b := range account.Balances {
		free := domain.LooseFromString(b.Free)
		locked := domain.LooseFromString(b.Locked)
		if free.IsZero() && locked.IsZero() {
			continue
		}

		result = append(result, domain.AssetBalance{
			Currency:  b.Asset,
			Available: free,
			Frozen:    locked,
			Total:     domain.LooseFromDecimal(free.Add(locked.Decimal)),
		})
	}

	return result, nil
}
