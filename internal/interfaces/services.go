package interfaces

import (
	"context"
	"time"

	"github.com/whoisarjen/investo/internal/models"
)

// PortfolioService manages the purchase lifecycle and derived metrics.
type PortfolioService interface {
	// GetPortfolio returns the portfolio, creating an empty one on first use.
	GetPortfolio(ctx context.Context) (*models.Portfolio, error)

	// AddPurchase validates and appends a new purchase.
	AddPurchase(ctx context.Context, req models.PurchaseRequest) (*models.Purchase, error)

	// UpdatePurchase edits an existing purchase in place, recomputing its
	// total cost.
	UpdatePurchase(ctx context.Context, id string, req models.PurchaseRequest) (*models.Purchase, error)

	// DeletePurchase removes a purchase by id.
	DeletePurchase(ctx context.Context, id string) error

	// ResetPortfolio clears all portfolio state.
	ResetPortfolio(ctx context.Context) error

	// ComputeMetrics refreshes quotes and derives portfolio metrics.
	ComputeMetrics(ctx context.Context) (*models.PortfolioMetrics, *RefreshReport, error)

	// Export serializes the portfolio into the stable wire document.
	Export(ctx context.Context) (*models.ExportDocument, error)

	// Import replaces the portfolio wholesale from a wire document.
	Import(ctx context.Context, data []byte) (*models.Portfolio, error)
}

// QuoteService refreshes quotes for a set of symbols with per-symbol
// failure isolation.
type QuoteService interface {
	// Refresh fetches quotes for the given symbols. Stale fetch rounds are
	// discarded: the returned report carries the round's generation token.
	Refresh(ctx context.Context, symbols []string) (map[string]models.Quote, *RefreshReport, error)
}

// RefreshReport summarizes a quote refresh round. A non-empty Failed map is
// a soft warning unless every requested symbol failed.
type RefreshReport struct {
	Generation  uint64
	Requested   int
	Fetched     int
	FromCache   int
	Failed      map[string]error
	RefreshedAt time.Time
}

// AllFailed reports whether no symbol could be resolved at all.
func (r *RefreshReport) AllFailed() bool {
	return r.Requested > 0 && r.Fetched == 0 && r.FromCache == 0
}
