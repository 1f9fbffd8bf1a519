// Package portfolio implements the purchase lifecycle and derived metrics
// on top of the storage and quote layers.
package portfolio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/metrics"
	"github.com/whoisarjen/investo/internal/models"
	"github.com/whoisarjen/investo/internal/pricecache"
)

// DefaultPortfolioName is used when a portfolio is bootstrapped on first use.
const DefaultPortfolioName = "My Portfolio"

// Service is the single-portfolio application service. Mutations are
// serialized; every successful mutation is written through to the store.
// An unavailable store is treated as empty state, never as a fatal error.
type Service struct {
	store  interfaces.PortfolioStore
	quotes interfaces.QuoteService
	cache  *pricecache.Cache
	logger *common.Logger
	now    func() time.Time // injectable clock for testing

	mu     sync.Mutex
	loaded *models.Portfolio
}

// NewService creates the portfolio service.
func NewService(store interfaces.PortfolioStore, quotes interfaces.QuoteService, cache *pricecache.Cache, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		quotes: quotes,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// GetPortfolio returns a snapshot of the current portfolio, loading it from
// the store on first access and bootstrapping an empty one when nothing is
// stored. The purchases slice is copied so callers can read it without
// holding the lock while a concurrent mutation edits the live portfolio.
func (s *Service) GetPortfolio(ctx context.Context) (*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pf, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	copied := *pf
	copied.Purchases = append([]models.Purchase(nil), pf.Purchases...)
	return &copied, nil
}

// current returns the in-memory portfolio, loading or bootstrapping it as
// needed. Callers must hold s.mu.
func (s *Service) current(ctx context.Context) (*models.Portfolio, error) {
	if s.loaded != nil {
		return s.loaded, nil
	}

	pf, err := s.store.LoadPortfolio(ctx)
	switch {
	case err == nil:
		s.loaded = pf
	case errors.Is(err, common.ErrNotFound):
		s.loaded = models.NewPortfolio(DefaultPortfolioName, s.now())
		s.logger.Info().Str("portfolio_id", s.loaded.ID).Msg("Bootstrapped new portfolio")
	default:
		// Unavailable storage degrades to empty state rather than failing
		// every request. The warning is the only trace.
		s.logger.Warn().Err(err).Msg("Portfolio load failed, starting with empty state")
		s.loaded = models.NewPortfolio(DefaultPortfolioName, s.now())
	}
	return s.loaded, nil
}

// save writes the portfolio through to the store. Callers must hold s.mu.
func (s *Service) save(ctx context.Context) error {
	if err := s.store.SavePortfolio(ctx, s.loaded); err != nil {
		s.logger.Error().Err(err).Msg("Portfolio save failed")
		return err
	}
	return nil
}

// AddPurchase validates and appends a new purchase.
func (s *Service) AddPurchase(ctx context.Context, req models.PurchaseRequest) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	p := models.NewPurchase(req.ETFSymbol, req.PurchaseDate, req.Shares, req.PricePerShare, req.Fees, req.Notes, s.now())
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pf.Purchases = append(pf.Purchases, *p)
	pf.UpdatedAt = s.now()
	if err := s.save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("purchase_id", p.ID).Str("symbol", p.ETFSymbol).Msg("Purchase added")
	return p, nil
}

// UpdatePurchase edits an existing purchase. The total cost is recomputed
// from the edited fields; it is never caller-settable.
func (s *Service) UpdatePurchase(ctx context.Context, id string, req models.PurchaseRequest) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	idx := pf.FindPurchase(id)
	if idx < 0 {
		return nil, common.ErrNotFound
	}

	// Validate the candidate before touching the stored purchase.
	candidate := pf.Purchases[idx]
	candidate.ETFSymbol = models.NormalizeSymbol(req.ETFSymbol)
	candidate.PurchaseDate = req.PurchaseDate
	candidate.Shares = req.Shares
	candidate.PricePerShare = req.PricePerShare
	candidate.Fees = req.Fees
	candidate.Notes = req.Notes
	candidate.UpdatedAt = s.now()
	candidate.RecalculateTotalCost()
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	pf.Purchases[idx] = candidate
	pf.UpdatedAt = s.now()
	if err := s.save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("purchase_id", id).Msg("Purchase updated")
	return &candidate, nil
}

// DeletePurchase removes a purchase by id.
func (s *Service) DeletePurchase(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.current(ctx)
	if err != nil {
		return err
	}

	idx := pf.FindPurchase(id)
	if idx < 0 {
		return common.ErrNotFound
	}

	pf.Purchases = append(pf.Purchases[:idx], pf.Purchases[idx+1:]...)
	pf.UpdatedAt = s.now()
	if err := s.save(ctx); err != nil {
		return err
	}

	s.logger.Info().Str("purchase_id", id).Msg("Purchase deleted")
	return nil
}

// ResetPortfolio clears all stored state and starts a fresh empty portfolio.
func (s *Service) ResetPortfolio(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeletePortfolio(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Portfolio delete failed during reset")
	}
	s.cache.Clear(ctx)
	s.loaded = models.NewPortfolio(DefaultPortfolioName, s.now())

	s.logger.Info().Str("portfolio_id", s.loaded.ID).Msg("Portfolio reset")
	return s.save(ctx)
}

// ComputeMetrics refreshes quotes for all held symbols and derives the full
// portfolio metrics. Partial quote failures degrade to cached prices and are
// surfaced in the report; only a total failure is an error.
func (s *Service) ComputeMetrics(ctx context.Context) (*models.PortfolioMetrics, *interfaces.RefreshReport, error) {
	pf, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if len(pf.Purchases) == 0 {
		m := metrics.ComputePortfolioMetrics(pf, map[string]models.Quote{}, now)
		return m, nil, nil
	}

	quotes, report, err := s.quotes.Refresh(ctx, pf.Symbols())
	if err != nil {
		return nil, report, err
	}

	s.syncCache(ctx, pf)

	m := metrics.ComputePortfolioMetrics(pf, quotes, now)
	return m, report, nil
}

// syncCache copies the shared price cache into the portfolio document so
// exported documents carry the latest known prices.
func (s *Service) syncCache(ctx context.Context, pf *models.Portfolio) {
	entries := s.cache.Entries()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded == nil {
		return
	}
	s.loaded.ETFCache = entries
	pf.ETFCache = entries
	if err := s.store.SavePortfolio(ctx, s.loaded); err != nil {
		s.logger.Debug().Err(err).Msg("Cache sync save failed, continuing")
	}
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
