package balances

import (
	"context"

	"github.com/avoverin/coindash/internal/domain"
)

// Fetcher retrieves the current per-asset balances of one account.
// Implementations normalize platform-specific response shapes into
// AssetBalance records; fields a platform does not report stay zero
// and are handled downstream by the valuator.
type Fetcher interface {
	FetchBalances(ctx context.Context) ([]domain.AssetBalance, error)
}
