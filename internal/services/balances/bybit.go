package balances

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/avoverin/coindash/internal/domain"
)

// BybitFetcher reads the V5 unified wallet balance. Bybit reports the
// wallet total, the locked portion and its own USD estimate per coin;
// the USD estimate is unreliably precise for dust positions, which the
// valuator's dust guard handles.
type BybitFetcher struct {
	client *bybit.Client
}

func NewBybitFetcher(client *bybit.Client) *BybitFetcher {
	return &BybitFetcher{client: client}
}

func (f *BybitFetcher) FetchBalances(ctx context.Context) ([]domain.AssetBalance, error) {
	res, err := f.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5UNIFIED, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bybit wallet balance")
	}

	var result []domain.AssetBalance
	for _, account := range res.Result.List {
		for _, coin := range account.Coin {
			wallet := domain.LooseFromString(coin.WalletBalance)
			locked := domain.LooseFromString(coin.Locked)
			if wallet.IsZero() && locked.IsZero() {
				continue
			}

			available := wallet.Sub(locked.Decimal)
			if available.IsNegative() {
				available = decimal.Zero
			}

			result = append(result, domain.AssetBalance{
				Currency:  string(coin.Coin),
				Available: domain.LooseFromDecimal(available),
				Frozen:    locked,
				Total:     wallet,
				ValueUSD:  domain.LooseFromString(coin.UsdValue),
			})
		}
	}

	return result, nil
}
