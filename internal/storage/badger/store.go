// Package badger provides a BadgerHold-based PortfolioStore.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/models"
)

const (
	portfolioKey = "portfolio"
	cacheKey     = "pricecache"
)

// portfolioRecord wraps the portfolio document for BadgerHold.
type portfolioRecord struct {
	Key       string `badgerhold:"key"`
	Portfolio models.Portfolio
}

// cacheRecord wraps the price cache map for BadgerHold.
type cacheRecord struct {
	Key     string `badgerhold:"key"`
	Entries map[string]models.CacheEntry
}

// Store wraps a BadgerHold database connection.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// LoadPortfolio reads the stored portfolio document.
func (s *Store) LoadPortfolio(ctx context.Context) (*models.Portfolio, error) {
	var record portfolioRecord
	if err := s.db.Get(portfolioKey, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, &common.PersistenceError{Op: "read", Err: err}
	}
	pf := record.Portfolio
	if pf.ETFCache == nil {
		pf.ETFCache = map[string]models.CacheEntry{}
	}
	return &pf, nil
}

// SavePortfolio upserts the portfolio document.
func (s *Store) SavePortfolio(ctx context.Context, pf *models.Portfolio) error {
	record := portfolioRecord{Key: portfolioKey, Portfolio: *pf}
	if err := s.db.Upsert(portfolioKey, &record); err != nil {
		return &common.PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// DeletePortfolio removes the portfolio document and the cache.
func (s *Store) DeletePortfolio(ctx context.Context) error {
	if err := s.db.Delete(portfolioKey, &portfolioRecord{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return &common.PersistenceError{Op: "delete", Err: err}
	}
	if err := s.db.Delete(cacheKey, &cacheRecord{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return &common.PersistenceError{Op: "delete", Err: err}
	}
	return nil
}

// LoadCache reads the price cache map. Missing cache is an empty map.
func (s *Store) LoadCache(ctx context.Context) (map[string]models.CacheEntry, error) {
	var record cacheRecord
	if err := s.db.Get(cacheKey, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return map[string]models.CacheEntry{}, nil
		}
		return nil, &common.PersistenceError{Op: "read", Err: err}
	}
	if record.Entries == nil {
		return map[string]models.CacheEntry{}, nil
	}
	return record.Entries, nil
}

// SaveCache upserts the price cache map.
func (s *Store) SaveCache(ctx context.Context, cache map[string]models.CacheEntry) error {
	record := cacheRecord{Key: cacheKey, Entries: cache}
	if err := s.db.Upsert(cacheKey, &record); err != nil {
		return &common.PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Store implements PortfolioStore
var _ interfaces.PortfolioStore = (*Store)(nil)
