package storage

import (
	"context"
	"sync"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/models"
)

// MemoryStore is a volatile PortfolioStore for tests and for hosts where no
// durable medium is available. SetUnavailable simulates disabled storage:
// every operation fails with a PersistenceError, which callers must absorb.
type MemoryStore struct {
	mu          sync.RWMutex
	portfolio   *models.Portfolio
	cache       map[string]models.CacheEntry
	unavailable bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: map[string]models.CacheEntry{},
	}
}

// SetUnavailable toggles the simulated storage failure mode.
func (m *MemoryStore) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

func (m *MemoryStore) errIfUnavailable(op string) error {
	if m.unavailable {
		return &common.PersistenceError{Op: op, Err: common.ErrNotFound}
	}
	return nil
}

// LoadPortfolio returns the stored portfolio.
func (m *MemoryStore) LoadPortfolio(ctx context.Context) (*models.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errIfUnavailable("read"); err != nil {
		return nil, err
	}
	if m.portfolio == nil {
		return nil, common.ErrNotFound
	}
	pf := *m.portfolio
	return &pf, nil
}

// SavePortfolio stores the portfolio.
func (m *MemoryStore) SavePortfolio(ctx context.Context, pf *models.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errIfUnavailable("write"); err != nil {
		return err
	}
	copied := *pf
	m.portfolio = &copied
	return nil
}

// DeletePortfolio clears all stored state.
func (m *MemoryStore) DeletePortfolio(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errIfUnavailable("delete"); err != nil {
		return err
	}
	m.portfolio = nil
	m.cache = map[string]models.CacheEntry{}
	return nil
}

// LoadCache returns a copy of the cache map.
func (m *MemoryStore) LoadCache(ctx context.Context) (map[string]models.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errIfUnavailable("read"); err != nil {
		return nil, err
	}
	out := make(map[string]models.CacheEntry, len(m.cache))
	for k, v := range m.cache {
		out[k] = v
	}
	return out, nil
}

// SaveCache replaces the cache map.
func (m *MemoryStore) SaveCache(ctx context.Context, cache map[string]models.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errIfUnavailable("write"); err != nil {
		return err
	}
	m.cache = make(map[string]models.CacheEntry, len(cache))
	for k, v := range cache {
		m.cache[k] = v
	}
	return nil
}

// Close is a no-op for the memory backend.
func (m *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements PortfolioStore
var _ interfaces.PortfolioStore = (*MemoryStore)(nil)
