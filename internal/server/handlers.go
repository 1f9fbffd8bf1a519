package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/models"
	"github.com/whoisarjen/investo/internal/services/portfolio"
	"github.com/whoisarjen/investo/internal/services/quote"
)

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case common.IsValidationError(err):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "validation")
	case errors.Is(err, common.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, quote.ErrAllSymbolsFailed):
		WriteErrorWithCode(w, http.StatusBadGateway, "All quote fetches failed", "quotes_unavailable")
	case errors.Is(err, quote.ErrSuperseded):
		WriteErrorWithCode(w, http.StatusConflict, "Refresh superseded by a newer request", "superseded")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// --- Portfolio handlers ---

func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	pf, err := s.portfolios.GetPortfolio(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, pf)
}

func (s *Server) handlePortfolioReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := s.portfolios.ResetPortfolio(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}

	pf, err := s.portfolios.GetPortfolio(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, pf)
}

// --- Purchase handlers ---

func (s *Server) handlePurchaseCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.PurchaseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := s.portfolios.AddPurchase(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, p)
}

// routePurchases dispatches /api/purchases/{id} by method.
func (s *Server) routePurchases(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/purchases/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Purchase id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handlePurchaseUpdate(w, r, id)
	case http.MethodDelete:
		s.handlePurchaseDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handlePurchaseUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req models.PurchaseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := s.portfolios.UpdatePurchase(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handlePurchaseDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.portfolios.DeletePurchase(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// --- Metrics handlers ---

// refreshSummary is the wire shape of a quote refresh report.
type refreshSummary struct {
	Fetched     int       `json:"fetched"`
	FromCache   int       `json:"fromCache"`
	Failed      []string  `json:"failed,omitempty"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	m, report, err := s.portfolios.ComputeMetrics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{
		"metrics": m,
	}
	if report != nil {
		failed := make([]string, 0, len(report.Failed))
		for symbol := range report.Failed {
			failed = append(failed, symbol)
		}
		sort.Strings(failed)
		resp["refresh"] = refreshSummary{
			Fetched:     report.Fetched,
			FromCache:   report.FromCache,
			Failed:      failed,
			RefreshedAt: report.RefreshedAt,
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

// --- Export / import handlers ---

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	doc, err := s.portfolios.Export(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.json"`)
	WriteJSON(w, http.StatusOK, doc)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 8<<20) // 8MB limit
	data, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read body: %v", err))
		return
	}

	pf, err := s.portfolios.Import(r.Context(), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, pf)
}

// --- Chart handlers ---

func (s *Server) handleHoldingsChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	m, _, err := s.portfolios.ComputeMetrics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	png, err := portfolio.RenderHoldingsChart(m)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
