package pricecache

import (
	"context"
	"sync"
	"time"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/models"
)

// CachedPrice is the read-side view of one cache entry.
type CachedPrice struct {
	Price float64
	Stale bool
}

// Cache holds the per-symbol price entries and applies the session TTL
// policy. All operations degrade silently when the backing store is
// unavailable: callers must treat "no cache" as "always stale", never as
// an error.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry
	store   interfaces.PortfolioStore // nil means volatile-only
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// New creates a Cache seeded from the store. A nil store or a failed load
// starts empty, which reads as always-stale.
func New(store interfaces.PortfolioStore, logger *common.Logger) *Cache {
	c := &Cache{
		entries: map[string]models.CacheEntry{},
		store:   store,
		logger:  logger,
		now:     time.Now,
	}

	if store != nil {
		if cached, err := store.LoadCache(context.Background()); err != nil {
			logger.Debug().Err(err).Msg("Price cache load failed, starting empty")
		} else if cached != nil {
			c.entries = cached
		}
	}

	return c
}

// Update upserts the cache entry for one quote.
func (c *Cache) Update(ctx context.Context, quote models.Quote) {
	c.mu.Lock()
	c.entries[models.NormalizeSymbol(quote.Symbol)] = c.entryFrom(quote)
	c.mu.Unlock()

	c.persist(ctx)
}

// UpdateBulk upserts entries for multiple quotes in one write.
func (c *Cache) UpdateBulk(ctx context.Context, quotes map[string]models.Quote) {
	if len(quotes) == 0 {
		return
	}

	c.mu.Lock()
	for _, quote := range quotes {
		c.entries[models.NormalizeSymbol(quote.Symbol)] = c.entryFrom(quote)
	}
	c.mu.Unlock()

	c.persist(ctx)
}

// GetCachedPrice returns the cached price and its staleness for a symbol.
// ok is false if the symbol was never cached.
func (c *Cache) GetCachedPrice(symbol string) (CachedPrice, bool) {
	c.mu.RLock()
	entry, ok := c.entries[models.NormalizeSymbol(symbol)]
	c.mu.RUnlock()
	if !ok {
		return CachedPrice{}, false
	}

	now := c.now()
	return CachedPrice{
		Price: entry.CurrentPrice,
		Stale: now.Sub(entry.LastUpdated) > TTLAt(now),
	}, true
}

// IsStale reports whether a symbol needs a fresh quote. Absent entries are
// stale by definition.
func (c *Cache) IsStale(symbol string) bool {
	cached, ok := c.GetCachedPrice(symbol)
	return !ok || cached.Stale
}

// Get returns the raw cache entry for a symbol.
func (c *Cache) Get(symbol string) (models.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[models.NormalizeSymbol(symbol)]
	return entry, ok
}

// Entries returns a copy of the cache map.
func (c *Cache) Entries() map[string]models.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]models.CacheEntry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// PruneStale removes entries older than maxAge regardless of the session
// TTL and returns the removed count. maxAge <= 0 uses DefaultPruneMaxAge.
func (c *Cache) PruneStale(ctx context.Context, maxAge time.Duration) int {
	if maxAge <= 0 {
		maxAge = DefaultPruneMaxAge
	}
	cutoff := c.now().Add(-maxAge)

	c.mu.Lock()
	removed := 0
	for symbol, entry := range c.entries {
		if entry.LastUpdated.Before(cutoff) {
			delete(c.entries, symbol)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.persist(ctx)
	}
	return removed
}

// Replace swaps the whole cache map, used when a portfolio import brings
// its own cached prices.
func (c *Cache) Replace(ctx context.Context, entries map[string]models.CacheEntry) {
	c.mu.Lock()
	c.entries = make(map[string]models.CacheEntry, len(entries))
	for symbol, entry := range entries {
		c.entries[models.NormalizeSymbol(symbol)] = entry
	}
	c.mu.Unlock()

	c.persist(ctx)
}

// Clear drops all entries.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.entries = map[string]models.CacheEntry{}
	c.mu.Unlock()

	c.persist(ctx)
}

func (c *Cache) entryFrom(quote models.Quote) models.CacheEntry {
	return models.CacheEntry{
		Symbol:        models.NormalizeSymbol(quote.Symbol),
		Name:          quote.Name,
		CurrentPrice:  quote.CurrentPrice,
		PreviousClose: quote.PreviousClose,
		YTDStartPrice: quote.YTDStartPrice(),
		LastUpdated:   c.now(),
	}
}

// persist writes the cache through to the store, best effort. Write failures
// leave the in-memory entries intact and are logged at debug only.
func (c *Cache) persist(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveCache(ctx, c.Entries()); err != nil {
		c.logger.Debug().Err(err).Msg("Price cache persist failed, continuing in memory")
	}
}
