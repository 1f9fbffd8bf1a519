package app

import (
	"context"
	"time"

	"github.com/whoisarjen/investo/internal/pricecache"
)

// DefaultPruneInterval is how often the background pruner sweeps the price
// cache for entries past the hard age limit.
const DefaultPruneInterval = time.Hour

// StartCachePruner starts the background sweep that drops price cache
// entries older than the hard age limit. Safe to call once; subsequent
// calls restart the loop.
func (a *App) StartCachePruner() {
	a.StopCachePruner()

	ctx, cancel := context.WithCancel(context.Background())
	a.prunerCancel = cancel

	go a.runCachePruner(ctx, DefaultPruneInterval)
}

// StopCachePruner stops the background sweep if it is running.
func (a *App) StopCachePruner() {
	if a.prunerCancel != nil {
		a.prunerCancel()
		a.prunerCancel = nil
	}
}

func (a *App) runCachePruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Logger.Info().Msg("Cache pruner: stopped")
			return
		case <-ticker.C:
			if removed := a.PriceCache.PruneStale(ctx, pricecache.DefaultPruneMaxAge); removed > 0 {
				a.Logger.Info().Int("removed", removed).Msg("Cache pruner: swept stale entries")
			}
		}
	}
}
