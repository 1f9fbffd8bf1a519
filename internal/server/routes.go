package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolioGet)
	mux.HandleFunc("/api/portfolio/reset", s.handlePortfolioReset)

	// Purchases
	mux.HandleFunc("/api/purchases", s.handlePurchaseCreate)
	mux.HandleFunc("/api/purchases/", s.routePurchases)

	// Metrics
	mux.HandleFunc("/api/metrics", s.handleMetrics)

	// Export / import
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/import", s.handleImport)

	// Charts
	mux.HandleFunc("/api/chart/holdings", s.handleHoldingsChart)
}
