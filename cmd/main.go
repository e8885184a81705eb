// Command coindash runs the portfolio dashboard. It polls the
// configured exchange accounts for balances, values each portfolio in
// USD and serves the result over a web UI, a JSON API and an SSE
// stream.
//
// Usage:
//
//	coindash --config config.yaml
//	coindash --platform demo --label paper (single account via flags)
//	coindash setup (interactive config wizard)
//
// Required environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avoverin/coindash/config"
	"github.com/avoverin/coindash/internal"
	"github.com/avoverin/coindash/internal/clients"
	"github.com/avoverin/coindash/internal/services/summary"
	"github.com/avoverin/coindash/internal/setup"
	"github.com/avoverin/coindash/internal/storage/valuations"
	"github.com/avoverin/coindash/internal/valuation"
	"github.com/avoverin/coindash/internal/web"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := getConfig()
	if err != nil {
		logger.Fatal("failed to get configuration", zap.Error(err))
	}

	store, err := valuations.NewWALStore(cfg.WALDir)
	if err != nil {
		logger.Fatal("failed to open valuation store", zap.Error(err))
	}
	defer store.Close()

	valuator := valuation.New(cfg.Valuation.Options()...)

	services := make([]*summary.Service, 0, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		svc, err := buildSummaryService(logger, account, valuator, store)
		if err != nil {
			logger.Fatal("failed to set up account",
				zap.String("account", account.Label), zap.Error(err))
		}
		services = append(services, svc)
	}

	readers := make([]web.SummaryReader, len(services))
	for i, svc := range services {
		readers[i] = svc
	}
	server := web.NewServer(cfg.ListenAddr, readers, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, svc := range services {
		g.Go(func() error {
			return svc.Run(ctx)
		})
		logger.Info("account tracking started",
			zap.String("account", svc.Account()), zap.String("platform", svc.Platform()))
	}
	g.Go(func() error {
		logger.Info("dashboard listening", zap.String("addr", cfg.ListenAddr))
		return server.Start(ctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Fatal("dashboard stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// getConfig resolves configuration: the setup subcommand runs the
// wizard and loads the file it generates, anything else goes through
// the flag/yaml path.
func getConfig() (*config.Config, error) {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			return nil, err
		}
		return config.Load(setup.GeneratedConfigFile)
	}
	return config.Get()
}

func buildSummaryService(logger *zap.Logger, account config.Account, valuator *valuation.Valuator, store *valuations.WALStore) (*summary.Service, error) {
	client, err := newClient(account)
	if err != nil {
		return nil, err
	}

	provider, err := internal.NewServiceProvider(client)
	if err != nil {
		return nil, err
	}
	fetcher, err := provider.Fetcher()
	if err != nil {
		return nil, err
	}
	priceSource, err := provider.Pricer()
	if err != nil {
		return nil, err
	}

	return summary.NewService(logger, account.Label, account.Platform,
		fetcher, priceSource, valuator, store, account.PollInterval)
}

func newClient(account config.Account) (any, error) {
	switch account.Platform {
	case "binance":
		apiKey := os.Getenv("BINANCE_API_KEY")
		apiSecret := os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, fmt.Errorf("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		return clients.NewBinanceClient(apiKey, apiSecret), nil
	case "bybit":
		apiKey := os.Getenv("BYBIT_API_KEY")
		apiSecret := os.Getenv("BYBIT_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, fmt.Errorf("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
		}
		return clients.NewBybitClient(apiKey, apiSecret), nil
	case "demo":
		return clients.NewDemoClient(account.DemoSeed), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", account.Platform)
	}
}
