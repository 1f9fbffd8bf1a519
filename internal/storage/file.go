// Package storage provides portfolio persistence with pluggable backends.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/models"
)

const (
	portfolioKey = "portfolio"
	cacheKey     = "pricecache"
)

// FileStore provides file-based JSON storage with optional versioning.
// The portfolio document is user-authored and versioned; the price cache is
// derived data and overwritten in place.
type FileStore struct {
	basePath string
	versions int
	logger   *common.Logger
}

// NewFileStore creates a FileStore rooted at path.
func NewFileStore(logger *common.Logger, path string, versions int) (*FileStore, error) {
	if versions < 0 {
		versions = 0
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Int("versions", versions).Msg("FileStore opened")
	return &FileStore{
		basePath: path,
		versions: versions,
		logger:   logger,
	}, nil
}

// LoadPortfolio reads the stored portfolio document.
func (fs *FileStore) LoadPortfolio(ctx context.Context) (*models.Portfolio, error) {
	var pf models.Portfolio
	if err := fs.readJSON(portfolioKey, &pf); err != nil {
		return nil, err
	}
	if pf.ETFCache == nil {
		pf.ETFCache = map[string]models.CacheEntry{}
	}
	return &pf, nil
}

// SavePortfolio persists the portfolio with version rotation.
func (fs *FileStore) SavePortfolio(ctx context.Context, pf *models.Portfolio) error {
	return fs.writeJSON(portfolioKey, pf, true)
}

// DeletePortfolio removes the portfolio, its versions, and the cache.
func (fs *FileStore) DeletePortfolio(ctx context.Context) error {
	fs.deleteJSON(portfolioKey)
	fs.deleteJSON(cacheKey)
	return nil
}

// LoadCache reads the price cache map. A missing cache file is an empty map.
func (fs *FileStore) LoadCache(ctx context.Context) (map[string]models.CacheEntry, error) {
	var cache map[string]models.CacheEntry
	if err := fs.readJSON(cacheKey, &cache); err != nil {
		if err == common.ErrNotFound {
			return map[string]models.CacheEntry{}, nil
		}
		return nil, err
	}
	if cache == nil {
		cache = map[string]models.CacheEntry{}
	}
	return cache, nil
}

// SaveCache overwrites the price cache map. Derived data, never versioned.
func (fs *FileStore) SaveCache(ctx context.Context, cache map[string]models.CacheEntry) error {
	return fs.writeJSON(cacheKey, cache, false)
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) filePath(key string) string {
	return filepath.Join(fs.basePath, key+".json")
}

// readJSON reads and unmarshals a JSON file.
func (fs *FileStore) readJSON(key string, dest interface{}) error {
	path := fs.filePath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return common.ErrNotFound
		}
		return &common.PersistenceError{Op: "read", Err: err}
	}
	if len(data) == 0 {
		return common.ErrNotFound
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &common.PersistenceError{Op: "parse", Err: fmt.Errorf("%s: %w", path, err)}
	}
	return nil
}

// writeJSON marshals data to indented JSON and writes it atomically.
// If versioned is true and versions > 0, rotates previous versions first.
func (fs *FileStore) writeJSON(key string, data interface{}, versioned bool) error {
	target := fs.filePath(key)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &common.PersistenceError{Op: "marshal", Err: err}
	}
	jsonData = append(jsonData, '\n')

	if versioned && fs.versions > 0 {
		fs.rotateVersions(target)
	}

	// Atomic write: temp file in the same directory, then rename.
	tmpFile, err := os.CreateTemp(fs.basePath, ".tmp-*")
	if err != nil {
		return &common.PersistenceError{Op: "write", Err: err}
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return &common.PersistenceError{Op: "write", Err: err}
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return &common.PersistenceError{Op: "write", Err: err}
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return &common.PersistenceError{Op: "write", Err: err}
	}

	return nil
}

// rotateVersions shifts existing versions up and moves current to v1.
func (fs *FileStore) rotateVersions(target string) {
	os.Remove(fmt.Sprintf("%s.v%d", target, fs.versions))

	for i := fs.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // file may not exist yet
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}

// deleteJSON removes a file and all its version backups.
func (fs *FileStore) deleteJSON(key string) {
	target := fs.filePath(key)
	os.Remove(target)
	for i := 1; i <= fs.versions; i++ {
		os.Remove(fmt.Sprintf("%s.v%d", target, i))
	}
}

// Ensure FileStore implements PortfolioStore
var _ interfaces.PortfolioStore = (*FileStore)(nil)
