package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/models"
)

func newTestFileStore(t *testing.T, versions int) *FileStore {
	t.Helper()
	fs, err := NewFileStore(common.NewSilentLogger(), t.TempDir(), versions)
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func samplePortfolio() *models.Portfolio {
	pf := models.NewPortfolio("Test", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	pf.Purchases = []models.Purchase{
		*models.NewPurchase("VOO", "2025-01-15", 10, 100, 5, "", pf.CreatedAt),
	}
	return pf
}

func TestFileStoreSaveLoadPortfolio(t *testing.T) {
	fs := newTestFileStore(t, 0)
	ctx := context.Background()

	pf := samplePortfolio()
	if err := fs.SavePortfolio(ctx, pf); err != nil {
		t.Fatalf("SavePortfolio error: %v", err)
	}

	loaded, err := fs.LoadPortfolio(ctx)
	if err != nil {
		t.Fatalf("LoadPortfolio error: %v", err)
	}
	if loaded.ID != pf.ID {
		t.Errorf("ID = %q, want %q", loaded.ID, pf.ID)
	}
	if len(loaded.Purchases) != 1 || loaded.Purchases[0].TotalCost != 1005 {
		t.Errorf("purchases = %+v", loaded.Purchases)
	}
	if loaded.ETFCache == nil {
		t.Error("ETFCache should never load as nil")
	}
}

func TestFileStoreLoadMissingPortfolio(t *testing.T) {
	fs := newTestFileStore(t, 0)

	_, err := fs.LoadPortfolio(context.Background())
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFileStoreDeletePortfolio(t *testing.T) {
	fs := newTestFileStore(t, 2)
	ctx := context.Background()

	if err := fs.SavePortfolio(ctx, samplePortfolio()); err != nil {
		t.Fatal(err)
	}
	if err := fs.SaveCache(ctx, map[string]models.CacheEntry{"VOO": {Symbol: "VOO"}}); err != nil {
		t.Fatal(err)
	}

	if err := fs.DeletePortfolio(ctx); err != nil {
		t.Fatalf("DeletePortfolio error: %v", err)
	}

	if _, err := fs.LoadPortfolio(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("portfolio survived delete: %v", err)
	}
	cache, err := fs.LoadCache(ctx)
	if err != nil || len(cache) != 0 {
		t.Errorf("cache survived delete: %v, %v", cache, err)
	}
}

func TestFileStoreVersionRotation(t *testing.T) {
	fs := newTestFileStore(t, 2)
	ctx := context.Background()

	pf := samplePortfolio()
	for i := 0; i < 4; i++ {
		pf.Version = models.SchemaVersion
		pf.Name = "Save " + string(rune('A'+i))
		if err := fs.SavePortfolio(ctx, pf); err != nil {
			t.Fatal(err)
		}
	}

	// Two rotated versions and the live file, nothing more.
	for _, name := range []string{"portfolio.json", "portfolio.json.v1", "portfolio.json.v2"} {
		if _, err := os.Stat(filepath.Join(fs.basePath, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(fs.basePath, "portfolio.json.v3")); !os.IsNotExist(err) {
		t.Error("v3 should not exist with versions=2")
	}
}

func TestFileStoreCacheUnversioned(t *testing.T) {
	fs := newTestFileStore(t, 2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := fs.SaveCache(ctx, map[string]models.CacheEntry{"VOO": {Symbol: "VOO"}}); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := os.Stat(filepath.Join(fs.basePath, "pricecache.json.v1")); !os.IsNotExist(err) {
		t.Error("cache is derived data and must not be versioned")
	}
}

func TestFileStoreLoadMissingCacheIsEmpty(t *testing.T) {
	fs := newTestFileStore(t, 0)

	cache, err := fs.LoadCache(context.Background())
	if err != nil {
		t.Fatalf("LoadCache error: %v", err)
	}
	if cache == nil || len(cache) != 0 {
		t.Errorf("cache = %v, want empty map", cache)
	}
}

func TestFileStoreCorruptPortfolioIsPersistenceError(t *testing.T) {
	fs := newTestFileStore(t, 0)

	path := filepath.Join(fs.basePath, "portfolio.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := fs.LoadPortfolio(context.Background())
	var pe *common.PersistenceError
	if !errors.As(err, &pe) {
		t.Errorf("err = %T, want *PersistenceError", err)
	}
}
