package valuations

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/avoverin/coindash/internal/domain"
)

const (
	defaultValuationDir   = "./wal/valuations"
	valuationSegmentLimit = 1000
	valuationMaxSegments  = 100
	valuationKeyPrefix    = "valuation_"
)

// WALStore persists portfolio valuations in a WAL so the dashboard can
// stream history and survive restarts.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed valuation store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultValuationDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "valuation_",
		SegmentThreshold: valuationSegmentLimit,
		MaxSegments:      valuationMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init valuation WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the valuation. Callers must ensure the account label is set.
func (s *WALStore) Save(valuation domain.PortfolioValuation) error {
	if s == nil || s.wal == nil {
		return errors.New("valuation store is not initialized")
	}
	if valuation.Account == "" {
		return fmt.Errorf("valuation account is required")
	}

	payload, err := json.Marshal(valuation)
	if err != nil {
		return errors.Wrap(err, "marshal valuation")
	}

	key := fmt.Sprintf("%s%s", valuationKeyPrefix, valuation.Account)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// ValuationsAfter returns all valuations written after the provided WAL index.
func (s *WALStore) ValuationsAfter(index uint64) ([]domain.ValuationRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("valuation store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.ValuationRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(key, valuationKeyPrefix) {
			continue
		}
		var valuation domain.PortfolioValuation
		if err := json.Unmarshal(payload, &valuation); err != nil {
			return nil, errors.Wrap(err, "decode valuation")
		}
		records = append(records, domain.ValuationRecord{
			Index:     idx,
			Valuation: valuation,
		})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("valuation store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
