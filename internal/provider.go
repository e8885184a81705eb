package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"

	"github.com/avoverin/coindash/internal/clients"
	"github.com/avoverin/coindash/internal/services/balances"
	"github.com/avoverin/coindash/internal/services/pricer"
	"github.com/avoverin/coindash/internal/valuation"
)

// ServiceProvider creates the platform-specific services an account
// needs: a balance fetcher and a price source.
type ServiceProvider interface {
	Fetcher() (balances.Fetcher, error)
	Pricer() (pricer.Pricer, error)
}

// NewServiceProvider dispatches on the client type. This is the single
// point of truth for mapping platforms to implementations.
func NewServiceProvider(client any) (ServiceProvider, error) {
	switch c := client.(type) {
	case *binance.Client:
		return &binanceProvider{client: c}, nil
	case *bybit.Client:
		return &bybitProvider{client: c}, nil
	case *clients.DemoClient:
		return &demoProvider{client: c}, nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}

type binanceProvider struct {
	client *binance.Client
}

func (p *binanceProvider) Fetcher() (balances.Fetcher, error) {
	return balances.NewBinanceFetcher(p.client), nil
}

func (p *binanceProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewBinancePricer(p.client), nil
}

type bybitProvider struct {
	client *bybit.Client
}

func (p *bybitProvider) Fetcher() (balances.Fetcher, error) {
	return balances.NewBybitFetcher(p.client), nil
}

func (p *bybitProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewBybitPricer(p.client), nil
}

type demoProvider struct {
	client *clients.DemoClient
}

func (p *demoProvider) Fetcher() (balances.Fetcher, error) {
	return balances.NewDemoFetcher(p.client), nil
}

func (p *demoProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewStaticPricer(valuation.ReferencePrices()), nil
}
