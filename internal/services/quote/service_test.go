package quote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/models"
	"github.com/whoisarjen/investo/internal/pricecache"
	"github.com/whoisarjen/investo/internal/storage"
)

type mockClient struct {
	mu sync.Mutex
	fn func(ctx context.Context, symbol string) (*models.Quote, error)
}

func (m *mockClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()
	return fn(ctx, symbol)
}

func (m *mockClient) setFn(fn func(ctx context.Context, symbol string) (*models.Quote, error)) {
	m.mu.Lock()
	m.fn = fn
	m.mu.Unlock()
}

func newTestService(fn func(ctx context.Context, symbol string) (*models.Quote, error)) (*Service, *mockClient, *pricecache.Cache) {
	client := &mockClient{fn: fn}
	cache := pricecache.New(storage.NewMemoryStore(), common.NewSilentLogger())
	svc := NewService(client, cache, common.NewSilentLogger())
	return svc, client, cache
}

func staticQuotes(prices map[string]float64) func(ctx context.Context, symbol string) (*models.Quote, error) {
	return func(ctx context.Context, symbol string) (*models.Quote, error) {
		price, ok := prices[symbol]
		if !ok {
			return nil, errors.New("symbol not found")
		}
		return &models.Quote{Symbol: symbol, CurrentPrice: price}, nil
	}
}

func TestRefreshFetchesAllSymbols(t *testing.T) {
	svc, _, cache := newTestService(staticQuotes(map[string]float64{"VOO": 120, "QQQ": 450}))

	quotes, report, err := svc.Refresh(context.Background(), []string{"voo", "QQQ", "VOO"})
	require.NoError(t, err)

	// Deduped after normalization: two symbols requested, both fetched.
	assert.Equal(t, 2, report.Requested)
	assert.Equal(t, 2, report.Fetched)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 120.0, quotes["VOO"].CurrentPrice)
	assert.Equal(t, 450.0, quotes["QQQ"].CurrentPrice)

	// Fresh quotes land in the cache.
	entry, ok := cache.Get("VOO")
	require.True(t, ok)
	assert.Equal(t, 120.0, entry.CurrentPrice)
}

func TestRefreshEmptySymbols(t *testing.T) {
	svc, _, _ := newTestService(staticQuotes(nil))

	quotes, report, err := svc.Refresh(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
	assert.Equal(t, 0, report.Requested)
}

func TestRefreshPartialFailureFallsBackToCache(t *testing.T) {
	svc, client, cache := newTestService(staticQuotes(map[string]float64{"VOO": 115, "QQQ": 440}))

	// Seed the cache with a prior successful round.
	_, _, err := svc.Refresh(context.Background(), []string{"VOO", "QQQ"})
	require.NoError(t, err)

	// QQQ starts failing; VOO keeps working.
	client.setFn(staticQuotes(map[string]float64{"VOO": 120}))

	quotes, report, err := svc.Refresh(context.Background(), []string{"VOO", "QQQ"})
	require.NoError(t, err, "partial failure is a soft warning, not an error")

	assert.Equal(t, 1, report.Fetched)
	assert.Equal(t, 1, report.FromCache)
	require.Contains(t, report.Failed, "QQQ")

	var qfe *common.QuoteFetchError
	require.ErrorAs(t, report.Failed["QQQ"], &qfe)
	assert.Equal(t, "QQQ", qfe.Symbol)

	// VOO is fresh, QQQ is the prior cached price.
	assert.Equal(t, 120.0, quotes["VOO"].CurrentPrice)
	assert.Equal(t, 440.0, quotes["QQQ"].CurrentPrice)

	// The failed symbol's cache entry was not clobbered.
	entry, ok := cache.Get("QQQ")
	require.True(t, ok)
	assert.Equal(t, 440.0, entry.CurrentPrice)
}

func TestRefreshFailedSymbolWithoutCacheIsOmitted(t *testing.T) {
	svc, _, _ := newTestService(staticQuotes(map[string]float64{"VOO": 120}))

	quotes, report, err := svc.Refresh(context.Background(), []string{"VOO", "GHOST"})
	require.NoError(t, err)

	assert.Contains(t, quotes, "VOO")
	assert.NotContains(t, quotes, "GHOST")
	assert.Contains(t, report.Failed, "GHOST")
	assert.Equal(t, 0, report.FromCache)
}

func TestRefreshAllFailedIsError(t *testing.T) {
	svc, _, _ := newTestService(staticQuotes(nil))

	quotes, report, err := svc.Refresh(context.Background(), []string{"VOO", "QQQ"})
	require.ErrorIs(t, err, ErrAllSymbolsFailed)
	assert.Nil(t, quotes)
	assert.True(t, report.AllFailed())
}

func TestRefreshSupersededRoundIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var blocking atomic.Bool
	blocking.Store(true)

	svc, client, cache := newTestService(nil)
	client.setFn(func(ctx context.Context, symbol string) (*models.Quote, error) {
		if blocking.Load() {
			started <- struct{}{}
			<-release
			return &models.Quote{Symbol: symbol, CurrentPrice: 100}, nil
		}
		return &models.Quote{Symbol: symbol, CurrentPrice: 200}, nil
	})

	// Round 1 blocks mid-fetch.
	type result struct {
		quotes map[string]models.Quote
		err    error
	}
	firstDone := make(chan result, 1)
	go func() {
		quotes, _, err := svc.Refresh(context.Background(), []string{"VOO"})
		firstDone <- result{quotes, err}
	}()
	<-started

	// Round 2 starts and completes while round 1 is in flight.
	blocking.Store(false)
	quotes, _, err := svc.Refresh(context.Background(), []string{"VOO"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, quotes["VOO"].CurrentPrice)

	// Round 1 finishes late and must be discarded wholesale.
	close(release)
	first := <-firstDone
	require.ErrorIs(t, first.err, ErrSuperseded)
	assert.Nil(t, first.quotes)

	// The stale round never overwrote the fresh cache entry.
	entry, ok := cache.Get("VOO")
	require.True(t, ok)
	assert.Equal(t, 200.0, entry.CurrentPrice)
}

func TestRefreshGenerationIncreases(t *testing.T) {
	svc, _, _ := newTestService(staticQuotes(map[string]float64{"VOO": 120}))

	_, first, err := svc.Refresh(context.Background(), []string{"VOO"})
	require.NoError(t, err)
	_, second, err := svc.Refresh(context.Background(), []string{"VOO"})
	require.NoError(t, err)

	assert.Greater(t, second.Generation, first.Generation)
}

func TestQuoteFromCacheEntryDerivesYTD(t *testing.T) {
	q := quoteFromCacheEntry(models.CacheEntry{
		Symbol:        "VOO",
		CurrentPrice:  110,
		YTDStartPrice: 100,
	})
	assert.InDelta(t, 10.0, q.YTDChangePercent, 0.001)

	// No stored year-start price: leave the YTD change at zero.
	q = quoteFromCacheEntry(models.CacheEntry{Symbol: "VOO", CurrentPrice: 110})
	assert.Zero(t, q.YTDChangePercent)
}
