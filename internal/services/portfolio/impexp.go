package portfolio

import (
	"context"

	"github.com/whoisarjen/investo/internal/models"
)

// Export wraps the current portfolio in the stable wire document.
func (s *Service) Export(ctx context.Context) (*models.ExportDocument, error) {
	pf, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	return models.ExportPortfolio(pf, s.now()), nil
}

// Import replaces the portfolio wholesale from a wire document. The document
// is fully validated before anything is touched; a failed import leaves the
// existing portfolio intact.
func (s *Service) Import(ctx context.Context, data []byte) (*models.Portfolio, error) {
	pf, err := models.ImportPortfolio(data, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = pf
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.cache.Replace(ctx, pf.ETFCache)

	s.logger.Info().
		Str("portfolio_id", pf.ID).
		Int("purchases", len(pf.Purchases)).
		Msg("Portfolio imported")

	copied := *pf
	return &copied, nil
}
