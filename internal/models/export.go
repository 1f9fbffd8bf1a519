package models

import (
	"encoding/json"
	"time"

	"github.com/whoisarjen/investo/internal/common"
)

// ExportDocument is the stable JSON wire format for portfolio export/import.
// Field names and shapes must not change between schema versions without a
// version bump.
type ExportDocument struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Purchases  []Purchase            `json:"purchases"`
	ETFCache   map[string]CacheEntry `json:"etfCache,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	ExportedAt time.Time             `json:"exportedAt"`
	Version    int                   `json:"version"`
}

// ExportPortfolio wraps a portfolio in the wire document.
func ExportPortfolio(pf *Portfolio, now time.Time) *ExportDocument {
	return &ExportDocument{
		ID:         pf.ID,
		Name:       pf.Name,
		Purchases:  pf.Purchases,
		ETFCache:   pf.ETFCache,
		CreatedAt:  pf.CreatedAt,
		UpdatedAt:  pf.UpdatedAt,
		ExportedAt: now,
		Version:    pf.Version,
	}
}

// ImportPortfolio parses and validates an exported document, returning the
// reconstructed portfolio. Missing timestamps are backfilled with now rather
// than rejected; structural problems return a ValidationError.
func ImportPortfolio(data []byte, now time.Time) (*Portfolio, error) {
	// Decode into a raw shape first so a non-list purchases field is reported
	// as a validation failure, not a bare JSON error.
	var raw struct {
		ID        string                `json:"id"`
		Name      string                `json:"name"`
		Purchases json.RawMessage       `json:"purchases"`
		ETFCache  map[string]CacheEntry `json:"etfCache"`
		CreatedAt time.Time             `json:"createdAt"`
		UpdatedAt time.Time             `json:"updatedAt"`
		Version   int                   `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, common.NewValidationError("", "document is not valid JSON: "+err.Error())
	}

	if raw.ID == "" {
		return nil, common.NewValidationError("id", "is required")
	}
	if raw.Name == "" {
		return nil, common.NewValidationError("name", "is required")
	}
	if len(raw.Purchases) == 0 {
		return nil, common.NewValidationError("purchases", "must be a list")
	}

	var purchases []Purchase
	// A literal null unmarshals into a nil slice without error; it is not a
	// list and must not wipe the stored purchases on import.
	if err := json.Unmarshal(raw.Purchases, &purchases); err != nil || purchases == nil {
		return nil, common.NewValidationError("purchases", "must be a list")
	}

	seen := make(map[string]bool, len(purchases))
	for i := range purchases {
		p := &purchases[i]
		if p.ID == "" {
			return nil, common.NewValidationError("purchases.id", "is required")
		}
		if seen[p.ID] {
			return nil, common.NewValidationError("purchases.id", "duplicate purchase id "+p.ID)
		}
		seen[p.ID] = true
		if p.ETFSymbol == "" {
			return nil, common.NewValidationError("purchases.etfSymbol", "is required")
		}
		if p.Shares <= 0 {
			return nil, common.NewValidationError("purchases.shares", "must be positive")
		}
		if p.PricePerShare <= 0 {
			return nil, common.NewValidationError("purchases.pricePerShare", "must be positive")
		}

		p.ETFSymbol = NormalizeSymbol(p.ETFSymbol)
		if p.Fees < 0 {
			p.Fees = 0
		}
		p.RecalculateTotalCost()

		// Backfill missing timestamps instead of rejecting older exports.
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
	}

	cache := raw.ETFCache
	if cache == nil {
		cache = map[string]CacheEntry{}
	}

	createdAt := raw.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	version := raw.Version
	if version == 0 {
		version = SchemaVersion
	}

	return &Portfolio{
		ID:        raw.ID,
		Name:      raw.Name,
		Purchases: purchases,
		ETFCache:  cache,
		CreatedAt: createdAt,
		UpdatedAt: now,
		Version:   version,
	}, nil
}
