package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/market"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/kmcdade/finboard/internal/store"
)

// PortfolioHandler handles portfolio CRUD and quote refresh requests.
type PortfolioHandler struct {
	logger    *common.Logger
	portfolio *store.Portfolio
	market    *market.Service
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(logger *common.Logger, portfolio *store.Portfolio, marketSvc *market.Service) *PortfolioHandler {
	return &PortfolioHandler{
		logger:    logger,
		portfolio: portfolio,
		market:    marketSvc,
	}
}

type holdingRequest struct {
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	PurchaseDate string          `json:"purchase_date"`
}

// List handles GET /api/portfolio.
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.portfolio.Load())
}

// Create handles POST /api/portfolio.
func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req holdingRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holding, err := h.portfolio.Add(models.Holding{
		Symbol:       req.Symbol,
		Quantity:     req.Quantity,
		AvgCost:      req.AvgCost,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().Str("symbol", holding.Symbol).Str("id", holding.ID).Msg("holding added")
	WriteJSON(w, http.StatusCreated, holding)
}

// Update handles PUT /api/portfolio/{id}.
func (h *PortfolioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/portfolio/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing holding id")
		return
	}

	var req holdingRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity.Sign() <= 0 {
		WriteError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if req.AvgCost.Sign() < 0 {
		WriteError(w, http.StatusBadRequest, "average cost must not be negative")
		return
	}

	var updated models.Holding
	if !h.portfolio.Update(id, func(holding *models.Holding) {
		holding.Quantity = req.Quantity
		holding.AvgCost = req.AvgCost
		if req.PurchaseDate != "" {
			holding.PurchaseDate = req.PurchaseDate
		}
		updated = *holding
	}) {
		WriteError(w, http.StatusNotFound, "holding not found")
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/portfolio/{id}.
func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/portfolio/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing holding id")
		return
	}

	if !h.portfolio.Delete(id) {
		WriteError(w, http.StatusNotFound, "holding not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/portfolio/refresh. It fetches fresh quotes for
// every held symbol concurrently and reports per-symbol outcomes.
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	symbols := h.portfolio.Symbols()
	if len(symbols) == 0 {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"refreshed": 0,
			"failed":    map[string]string{},
		})
		return
	}

	results := h.market.RefreshQuotes(r.Context(), symbols)

	refreshed := 0
	failed := map[string]string{}
	for _, res := range results {
		if res.Err != nil {
			failed[res.Symbol] = res.Err.Error()
			continue
		}
		refreshed++
	}

	h.logger.Info().Int("refreshed", refreshed).Int("failed", len(failed)).Msg("portfolio quotes refreshed")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"refreshed": refreshed,
		"failed":    failed,
	})
}
