// Package quote refreshes ETF quotes with per-symbol failure isolation.
package quote

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/models"
	"github.com/whoisarjen/investo/internal/pricecache"
)

// ErrSuperseded is returned when a newer refresh round started while this
// one was in flight. The round's results are discarded so stale quotes can
// never overwrite fresh ones.
var ErrSuperseded = errors.New("refresh round superseded")

// ErrAllSymbolsFailed is returned when no requested symbol could be
// resolved, from the provider or the cache.
var ErrAllSymbolsFailed = errors.New("all quote fetches failed")

// DefaultFanout bounds concurrent per-symbol fetches.
const DefaultFanout = 4

// Service implements QuoteService on top of a QuoteClient and the price
// cache. Fetches fan out per symbol; one symbol failing never blocks the
// others.
type Service struct {
	client interfaces.QuoteClient
	cache  *pricecache.Cache
	logger *common.Logger
	fanout int
	now    func() time.Time // injectable clock for testing

	generation atomic.Uint64 // latest started round
	applied    atomic.Uint64 // latest round whose results were kept
}

// NewService creates a new quote service.
func NewService(client interfaces.QuoteClient, cache *pricecache.Cache, logger *common.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		logger: logger,
		fanout: DefaultFanout,
		now:    time.Now,
	}
}

// Refresh fetches quotes for the given symbols. Failed symbols fall back to
// the last cached price when one exists and are otherwise omitted; the
// failure count is a soft warning unless every symbol failed.
func (s *Service) Refresh(ctx context.Context, symbols []string) (map[string]models.Quote, *interfaces.RefreshReport, error) {
	gen := s.generation.Add(1)

	// Normalize and dedupe, preserving request order.
	seen := make(map[string]bool, len(symbols))
	var wanted []string
	for _, symbol := range symbols {
		normalized := models.NormalizeSymbol(symbol)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		wanted = append(wanted, normalized)
	}

	report := &interfaces.RefreshReport{
		Generation:  gen,
		Requested:   len(wanted),
		Failed:      map[string]error{},
		RefreshedAt: s.now(),
	}
	if len(wanted) == 0 {
		return map[string]models.Quote{}, report, nil
	}

	fetched := make([]*models.Quote, len(wanted))
	failures := make([]error, len(wanted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, symbol := range wanted {
		g.Go(func() error {
			q, err := s.client.GetQuote(gctx, symbol)
			if err != nil {
				failures[i] = &common.QuoteFetchError{Symbol: symbol, Err: err}
				return nil // independent failure capture, never abort the group
			}
			fetched[i] = q
			return nil
		})
	}
	g.Wait()

	// A newer round started while this one ran: drop everything.
	if s.generation.Load() != gen || !s.tryApply(gen) {
		s.logger.Debug().Uint64("generation", gen).Msg("Discarding superseded quote refresh round")
		return nil, report, ErrSuperseded
	}

	quotes := make(map[string]models.Quote, len(wanted))
	freshQuotes := make(map[string]models.Quote, len(wanted))
	for i, symbol := range wanted {
		if q := fetched[i]; q != nil {
			quotes[symbol] = *q
			freshQuotes[symbol] = *q
			report.Fetched++
			continue
		}

		report.Failed[symbol] = failures[i]

		// Local recovery: last cached price, stale or not.
		if entry, ok := s.cache.Get(symbol); ok {
			quotes[symbol] = quoteFromCacheEntry(entry)
			report.FromCache++
		}
	}

	s.cache.UpdateBulk(ctx, freshQuotes)

	if len(report.Failed) > 0 {
		s.logger.Warn().
			Int("failed", len(report.Failed)).
			Int("fetched", report.Fetched).
			Int("from_cache", report.FromCache).
			Msg("Quote refresh completed with failures")
	}

	if report.AllFailed() {
		return nil, report, ErrAllSymbolsFailed
	}
	return quotes, report, nil
}

// tryApply marks gen as the latest applied round. Returns false if a newer
// round already applied its results.
func (s *Service) tryApply(gen uint64) bool {
	for {
		current := s.applied.Load()
		if current >= gen {
			return false
		}
		if s.applied.CompareAndSwap(current, gen) {
			return true
		}
	}
}

// quoteFromCacheEntry reconstructs a usable quote from a cache entry. The
// YTD change is re-derived from the stored year-start price.
func quoteFromCacheEntry(entry models.CacheEntry) models.Quote {
	q := models.Quote{
		Symbol:        entry.Symbol,
		Name:          entry.Name,
		CurrentPrice:  entry.CurrentPrice,
		PreviousClose: entry.PreviousClose,
		Timestamp:     entry.LastUpdated,
	}
	if entry.YTDStartPrice > 0 {
		q.YTDChangePercent = (entry.CurrentPrice - entry.YTDStartPrice) / entry.YTDStartPrice * 100
	}
	return q
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
