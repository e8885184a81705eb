package valuations

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avoverin/coindash/internal/domain"
)

func testValuation(account string, total int64) domain.PortfolioValuation {
	return domain.PortfolioValuation{
		Account:    account,
		Platform:   "demo",
		Timestamp:  time.Now().UTC(),
		TotalValue: decimal.NewFromInt(total),
	}
}

func TestWALStoreSaveAndReadBack(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(testValuation("main", 100)))
	require.NoError(t, store.Save(testValuation("main", 150)))

	records, err := store.ValuationsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "main", records[0].Valuation.Account)
	require.True(t, records[1].Valuation.TotalValue.Equal(decimal.NewFromInt(150)))
	require.Greater(t, records[1].Index, records[0].Index)
}

func TestWALStoreCursor(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(testValuation("a", 1)))
	first := store.CurrentIndex()
	require.NoError(t, store.Save(testValuation("a", 2)))

	// reading past the cursor returns only newer records
	records, err := store.ValuationsAfter(first)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Valuation.TotalValue.Equal(decimal.NewFromInt(2)))

	records, err = store.ValuationsAfter(store.CurrentIndex())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestWALStoreRejectsMissingAccount(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.Error(t, store.Save(domain.PortfolioValuation{}))
}
