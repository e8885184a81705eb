package summary

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/avoverin/coindash/internal/domain"
	"github.com/avoverin/coindash/internal/services/balances"
	"github.com/avoverin/coindash/internal/services/pricer"
	"github.com/avoverin/coindash/internal/valuation"
	"github.com/avoverin/coindash/pkg/retrier"
)

const (
	defaultPollInterval = 15 * time.Second

	// assets are priced against USDT; asking an exchange for the
	// USDT/USDT ticker always fails, so enrichment skips it
	quoteCurrency = "USDT"
)

// ValuationWriter persists valuations for streaming and history.
type ValuationWriter interface {
	Save(valuation domain.PortfolioValuation) error
}

// Service produces the account summary for one account: it polls the
// exchange for balances, backfills missing prices, runs the valuator
// and keeps the latest result for synchronous reads. Each account gets
// its own Service instance; instances share nothing.
type Service struct {
	logger       *zap.Logger
	account      string
	platform     string
	fetcher      balances.Fetcher
	priceSource  pricer.Pricer
	valuator     *valuation.Valuator
	store        ValuationWriter
	retry        *retrier.Retrier
	pollInterval time.Duration

	mu     sync.RWMutex
	latest *domain.PortfolioValuation
}

// NewService creates a summary service. priceSource and store may be
// nil: enrichment and persistence are then skipped.
func NewService(
	logger *zap.Logger,
	account string,
	platform string,
	fetcher balances.Fetcher,
	priceSource pricer.Pricer,
	valuator *valuation.Valuator,
	store ValuationWriter,
	pollInterval time.Duration,
) (*Service, error) {
	if account == "" {
		return nil, errors.New("account label is required")
	}
	if fetcher == nil {
		return nil, errors.New("balance fetcher is required")
	}
	if valuator == nil {
		return nil, errors.New("valuator is required")
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Service{
		logger:       logger.With(zap.String("account", account), zap.String("platform", platform)),
		account:      account,
		platform:     platform,
		fetcher:      fetcher,
		priceSource:  priceSource,
		valuator:     valuator,
		store:        store,
		retry:        retrier.New(),
		pollInterval: pollInterval,
	}, nil
}

// Account returns the account label this service serves.
func (s *Service) Account() string {
	return s.account
}

// Platform returns the exchange platform of the account.
func (s *Service) Platform() string {
	return s.platform
}

// Latest returns the most recent valuation, if one has been computed.
func (s *Service) Latest() (domain.PortfolioValuation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return domain.PortfolioValuation{}, false
	}
	return *s.latest, true
}

// Refresh fetches balances, enriches prices and recomputes the
// valuation. A totalValue of zero across a non-empty asset list is a
// valid result; deciding whether it indicates an upstream problem is
// the caller's concern.
func (s *Service) Refresh(ctx context.Context) (domain.PortfolioValuation, error) {
	fetched, err := retrier.DoWithData(s.retry, ctx, func(ctx context.Context) ([]domain.AssetBalance, error) {
		return s.fetcher.FetchBalances(ctx)
	})
	if err != nil {
		return domain.PortfolioValuation{}, errors.Wrap(err, "fetch balances")
	}

	s.enrichPrices(ctx, fetched)

	result := s.valuator.Valuate(fetched)
	result.ID = uuid.NewString()
	result.Account = s.account
	result.Platform = s.platform

	s.mu.Lock()
	s.latest = &result
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(result); err != nil {
			s.logger.Error("failed to persist valuation", zap.Error(err))
		}
	}

	return result, nil
}

// enrichPrices fills in pricePerUnit for assets the exchange reported
// without usable price information. A valueUSD at or below the dust
// threshold does not count as usable: the valuator would discard it, so
// the asset still needs a real price. Lookup failures are skipped; the
// valuator degrades those assets per its fallback rules.
func (s *Service) enrichPrices(ctx context.Context, fetched []domain.AssetBalance) {
	if s.priceSource == nil {
		return
	}

	for i := range fetched {
		b := &fetched[i]
		if b.PricePerUnit.IsPositive() ||
			b.ValueUSD.GreaterThan(s.valuator.DustThreshold()) ||
			b.Currency == quoteCurrency {
			continue
		}

		price, err := s.priceSource.GetPrice(ctx, b.Currency)
		if err != nil {
			s.logger.Debug("price lookup failed", zap.String("currency", b.Currency), zap.Error(err))
			continue
		}
		b.PricePerUnit = domain.LooseFromDecimal(price)
	}
}

// Run refreshes the summary on the poll interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Error("initial refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.logger.Info("starting summary poll loop", zap.Duration("poll_interval", s.pollInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("context done, stopping summary poll loop")
			return ctx.Err()
		case <-ticker.C:
			result, err := s.Refresh(ctx)
			if err != nil {
				s.logger.Error("summary refresh failed", zap.Error(err))
				continue
			}
			s.logger.Debug("summary refreshed",
				zap.String("total_value", result.TotalValue.String()),
				zap.Int("assets", len(result.PerAsset)))
		}
	}
}
