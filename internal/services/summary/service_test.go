package summary

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avoverin/coindash/internal/domain"
	"github.com/avoverin/coindash/internal/services/pricer"
	"github.com/avoverin/coindash/internal/valuation"
	"github.com/avoverin/coindash/pkg/retrier"
)

type stubFetcher struct {
	balances []domain.AssetBalance
	err      error
	calls    int
}

func (f *stubFetcher) FetchBalances(context.Context) ([]domain.AssetBalance, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.balances, nil
}

type stubPricer struct {
	prices map[string]decimal.Decimal
}

func (p *stubPricer) GetPrice(_ context.Context, currency string) (decimal.Decimal, error) {
	price, ok := p.prices[currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no price for %s", currency)
	}
	return price, nil
}

type stubStore struct {
	saved []domain.PortfolioValuation
	err   error
}

func (s *stubStore) Save(v domain.PortfolioValuation) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, v)
	return nil
}

func newTestService(t *testing.T, fetcher *stubFetcher, priceSource *stubPricer, store *stubStore) *Service {
	t.Helper()

	var p pricer.Pricer
	if priceSource != nil {
		p = priceSource
	}
	var w ValuationWriter
	if store != nil {
		w = store
	}

	svc, err := NewService(zap.NewNop(), "main", "binance", fetcher, p, valuation.New(), w, 0)
	require.NoError(t, err)
	// keep retries out of unit tests
	svc.retry = retrier.New(retrier.WithMaxAttempts(1))
	return svc
}

func TestRefreshValuesAndStores(t *testing.T) {
	fetcher := &stubFetcher{balances: []domain.AssetBalance{
		{
			Currency:  "BTC",
			Available: domain.LooseFromFloat(0.5),
			Total:     domain.LooseFromFloat(0.5),
		},
		{
			Currency:  "USDT",
			Available: domain.LooseFromFloat(1000),
			Total:     domain.LooseFromFloat(1000),
		},
	}}
	priceSource := &stubPricer{prices: map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(90000),
	}}
	store := &stubStore{}

	svc := newTestService(t, fetcher, priceSource, store)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	// BTC enriched to 0.5*90000, USDT pegged
	require.True(t, result.TotalValue.Equal(decimal.NewFromInt(46000)), "total: %s", result.TotalValue)
	require.Equal(t, "main", result.Account)
	require.Equal(t, "binance", result.Platform)
	require.NotEmpty(t, result.ID)

	require.Len(t, store.saved, 1)
	require.True(t, store.saved[0].TotalValue.Equal(result.TotalValue))

	latest, ok := svc.Latest()
	require.True(t, ok)
	require.True(t, latest.TotalValue.Equal(result.TotalValue))
}

func TestRefreshSkipsFailedPriceLookups(t *testing.T) {
	fetcher := &stubFetcher{balances: []domain.AssetBalance{
		{
			Currency:  "SHIB",
			Available: domain.LooseFromFloat(1000000),
			Total:     domain.LooseFromFloat(1000000),
		},
	}}

	svc := newTestService(t, fetcher, &stubPricer{}, nil)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	// unpriced asset degrades to zero instead of failing the refresh
	require.True(t, result.TotalValue.IsZero())
	require.Len(t, result.PerAsset, 1)
}

func TestRefreshEnrichesDustValuedAssets(t *testing.T) {
	// bybit reports a near-zero UsdValue for dust positions; that figure
	// is discarded by the valuator, so the asset must still be priced
	fetcher := &stubFetcher{balances: []domain.AssetBalance{
		{
			Currency:  "PEPE",
			Available: domain.LooseFromFloat(1000000),
			Total:     domain.LooseFromFloat(1000000),
			ValueUSD:  domain.LooseFromFloat(0.005),
		},
	}}
	priceSource := &stubPricer{prices: map[string]decimal.Decimal{
		"PEPE": decimal.NewFromFloat(0.00001),
	}}

	svc := newTestService(t, fetcher, priceSource, nil)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, result.TotalValue.Equal(decimal.NewFromInt(10)), "total: %s", result.TotalValue)
}

func TestRefreshDoesNotRepriceValuedAssets(t *testing.T) {
	fetcher := &stubFetcher{balances: []domain.AssetBalance{
		{
			Currency:     "ETH",
			Available:    domain.LooseFromFloat(2),
			Total:        domain.LooseFromFloat(2),
			PricePerUnit: domain.LooseFromFloat(3000),
		},
	}}
	// the pricer disagrees with the exchange; the reported price wins
	priceSource := &stubPricer{prices: map[string]decimal.Decimal{
		"ETH": decimal.NewFromInt(9999),
	}}

	svc := newTestService(t, fetcher, priceSource, nil)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, result.TotalValue.Equal(decimal.NewFromInt(6000)), "total: %s", result.TotalValue)
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("exchange down")}

	svc := newTestService(t, fetcher, nil, nil)

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)

	_, ok := svc.Latest()
	require.False(t, ok)
}

func TestRefreshEmptyAccount(t *testing.T) {
	svc := newTestService(t, &stubFetcher{}, nil, nil)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, result.TotalValue.IsZero())
	require.NotNil(t, result.PerAsset)
	require.Empty(t, result.PerAsset)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(zap.NewNop(), "", "demo", &stubFetcher{}, nil, valuation.New(), nil, 0)
	require.Error(t, err)

	_, err = NewService(zap.NewNop(), "main", "demo", nil, nil, valuation.New(), nil, 0)
	require.Error(t, err)

	_, err = NewService(zap.NewNop(), "main", "demo", &stubFetcher{}, nil, nil, nil, 0)
	require.Error(t, err)
}
