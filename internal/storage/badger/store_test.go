package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(common.NewSilentLogger(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LoadPortfolio(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("empty store err = %v, want ErrNotFound", err)
	}

	pf := models.NewPortfolio("Test", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	pf.Purchases = []models.Purchase{
		*models.NewPurchase("VOO", "2025-01-15", 10, 100, 5, "", pf.CreatedAt),
	}
	if err := s.SavePortfolio(ctx, pf); err != nil {
		t.Fatalf("SavePortfolio error: %v", err)
	}

	loaded, err := s.LoadPortfolio(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ID != pf.ID || len(loaded.Purchases) != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestBadgerStoreCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cache, err := s.LoadCache(ctx)
	if err != nil || len(cache) != 0 {
		t.Fatalf("missing cache should be empty: %v, %v", cache, err)
	}

	want := map[string]models.CacheEntry{
		"VOO": {Symbol: "VOO", CurrentPrice: 120},
	}
	if err := s.SaveCache(ctx, want); err != nil {
		t.Fatal(err)
	}

	cache, err = s.LoadCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cache["VOO"].CurrentPrice != 120 {
		t.Errorf("cache = %+v", cache)
	}
}

func TestBadgerStoreDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pf := models.NewPortfolio("Test", time.Now())
	if err := s.SavePortfolio(ctx, pf); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePortfolio(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadPortfolio(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("portfolio survived delete: %v", err)
	}

	// Deleting again is a no-op, not an error.
	if err := s.DeletePortfolio(ctx); err != nil {
		t.Errorf("second delete err = %v", err)
	}
}
