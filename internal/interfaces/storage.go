// Package interfaces defines service contracts for Investo
package interfaces

import (
	"context"

	"github.com/whoisarjen/investo/internal/models"
)

// PortfolioStore persists the portfolio document and its price cache.
// Implementations may back it with any key-value medium (files, embedded DB,
// memory); the calculation engine never assumes a specific one.
type PortfolioStore interface {
	// LoadPortfolio returns the stored portfolio, or common.ErrNotFound
	// when none has been created yet.
	LoadPortfolio(ctx context.Context) (*models.Portfolio, error)

	// SavePortfolio persists the portfolio document.
	SavePortfolio(ctx context.Context, pf *models.Portfolio) error

	// DeletePortfolio removes the stored portfolio and cache.
	DeletePortfolio(ctx context.Context) error

	// LoadCache returns the price cache map. A missing cache is returned as
	// an empty map, not an error.
	LoadCache(ctx context.Context) (map[string]models.CacheEntry, error)

	// SaveCache persists the price cache map.
	SaveCache(ctx context.Context, cache map[string]models.CacheEntry) error

	// Lifecycle
	Close() error
}
