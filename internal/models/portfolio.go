// Package models defines data structures for Investo
package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whoisarjen/investo/internal/common"
)

// SchemaVersion is the current portfolio document schema version.
const SchemaVersion = 1

// DateLayout is the calendar-date wire format for purchase dates.
const DateLayout = "2006-01-02"

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// NormalizeSymbol uppercases and trims an ETF symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks that a normalized symbol is 1-10 uppercase
// alphanumeric characters.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(NormalizeSymbol(symbol)) {
		return common.NewValidationError("etfSymbol", "must be 1-10 uppercase alphanumeric characters")
	}
	return nil
}

// Purchase represents a single ETF buy transaction.
type Purchase struct {
	ID            string    `json:"id"`
	ETFSymbol     string    `json:"etfSymbol"`
	PurchaseDate  string    `json:"purchaseDate"` // calendar date, YYYY-MM-DD
	Shares        float64   `json:"shares"`
	PricePerShare float64   `json:"pricePerShare"`
	TotalCost     float64   `json:"totalCost"` // shares*pricePerShare + fees, recomputed on every edit
	Fees          float64   `json:"fees"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewPurchase creates a Purchase with a generated id and computed total cost.
func NewPurchase(symbol, purchaseDate string, shares, pricePerShare, fees float64, notes string, now time.Time) *Purchase {
	p := &Purchase{
		ID:            uuid.New().String(),
		ETFSymbol:     NormalizeSymbol(symbol),
		PurchaseDate:  purchaseDate,
		Shares:        shares,
		PricePerShare: pricePerShare,
		Fees:          fees,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.RecalculateTotalCost()
	return p
}

// RecalculateTotalCost restores the totalCost invariant.
func (p *Purchase) RecalculateTotalCost() {
	p.TotalCost = p.Shares*p.PricePerShare + p.Fees
}

// ParsedDate returns the purchase date as a time.Time at local midnight.
func (p *Purchase) ParsedDate() (time.Time, error) {
	return time.ParseInLocation(DateLayout, p.PurchaseDate, time.Local)
}

// Validate checks purchase fields for structural validity.
func (p *Purchase) Validate() error {
	if p.ID == "" {
		return common.NewValidationError("id", "is required")
	}
	if err := ValidateSymbol(p.ETFSymbol); err != nil {
		return err
	}
	if _, err := time.ParseInLocation(DateLayout, p.PurchaseDate, time.Local); err != nil {
		return common.NewValidationError("purchaseDate", "must be a YYYY-MM-DD calendar date")
	}
	if p.Shares <= 0 {
		return common.NewValidationError("shares", "must be positive")
	}
	if p.PricePerShare <= 0 {
		return common.NewValidationError("pricePerShare", "must be positive")
	}
	if p.Fees < 0 {
		return common.NewValidationError("fees", "must not be negative")
	}
	return nil
}

// CacheEntry is one cached price per symbol, owned by the portfolio's cache map.
type CacheEntry struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	CurrentPrice  float64   `json:"currentPrice"`
	PreviousClose float64   `json:"previousClose"`
	YTDStartPrice float64   `json:"ytdStartPrice"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Portfolio is the aggregate root: all purchases plus the ETF price cache.
type Portfolio struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Purchases []Purchase            `json:"purchases"`
	ETFCache  map[string]CacheEntry `json:"etfCache"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Version   int                   `json:"version"`
}

// NewPortfolio creates an empty portfolio at the current schema version.
func NewPortfolio(name string, now time.Time) *Portfolio {
	return &Portfolio{
		ID:        uuid.New().String(),
		Name:      name,
		Purchases: []Purchase{},
		ETFCache:  map[string]CacheEntry{},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   SchemaVersion,
	}
}

// FindPurchase returns the index of the purchase with the given id, or -1.
func (pf *Portfolio) FindPurchase(id string) int {
	for i := range pf.Purchases {
		if pf.Purchases[i].ID == id {
			return i
		}
	}
	return -1
}

// Symbols returns the distinct normalized symbols across all purchases,
// in first-appearance order.
func (pf *Portfolio) Symbols() []string {
	seen := make(map[string]bool)
	var symbols []string
	for i := range pf.Purchases {
		s := NormalizeSymbol(pf.Purchases[i].ETFSymbol)
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	return symbols
}
