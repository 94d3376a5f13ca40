package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kmcdade/finboard/internal/chart"
	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/market"
)

// MarketsHandler handles market data requests: quotes, symbol search,
// news, exchange rates, and price charts.
type MarketsHandler struct {
	logger   *common.Logger
	market   *market.Service
	searcher *market.Searcher
}

// NewMarketsHandler creates a new markets handler.
func NewMarketsHandler(logger *common.Logger, marketSvc *market.Service) *MarketsHandler {
	return &MarketsHandler{
		logger:   logger,
		market:   marketSvc,
		searcher: market.NewSearcher(marketSvc),
	}
}

// writeProviderError maps provider failures to HTTP statuses: rate limits
// become 429, the rest 502.
func writeProviderError(w http.ResponseWriter, err error) {
	if market.IsRateLimited(err) {
		WriteError(w, http.StatusTooManyRequests, err.Error())
		return
	}
	WriteError(w, http.StatusBadGateway, err.Error())
}

// Quote handles GET /api/markets/quote?symbol=AAPL.
func (h *MarketsHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}

	quote, err := h.market.GetQuote(r.Context(), symbol)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// Series handles GET /api/markets/series?symbol=AAPL, returning daily
// price points newest-first.
func (h *MarketsHandler) Series(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}

	series, err := h.market.GetDailySeries(r.Context(), symbol)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, series)
}

// Search handles GET /api/markets/search?q=apple. Stale responses are
// dropped silently so a fast typist only ever sees the latest query's
// results.
func (h *MarketsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	matches, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, market.ErrSuperseded) {
			WriteJSON(w, http.StatusOK, map[string]interface{}{
				"superseded": true,
				"matches":    []interface{}{},
			})
			return
		}
		writeProviderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"superseded": false,
		"matches":    matches,
	})
}

// News handles GET /api/markets/news. With a q parameter it searches;
// otherwise it returns business headlines for the country (default us).
func (h *MarketsHandler) News(w http.ResponseWriter, r *http.Request) {
	if query := r.URL.Query().Get("q"); query != "" {
		articles, err := h.market.SearchNews(r.Context(), query)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, articles)
		return
	}

	articles, err := h.market.GetTopHeadlines(r.Context(), r.URL.Query().Get("country"))
	if err != nil {
		writeProviderError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, articles)
}

// Rates handles GET /api/markets/rates?base=USD.
func (h *MarketsHandler) Rates(w http.ResponseWriter, r *http.Request) {
	table, err := h.market.GetExchangeRates(r.Context(), r.URL.Query().Get("base"))
	if err != nil {
		writeProviderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, table)
}

// Chart handles GET /api/markets/{symbol}/chart, returning the rendered
// SVG price chart.
func (h *MarketsHandler) Chart(w http.ResponseWriter, r *http.Request) {
	symbol := chartSymbol(r.URL.Path)
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	c, err := h.buildChart(r, symbol)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(c.SVG()))
}

// ChartPoint handles GET /api/markets/{symbol}/chart/point?x=&y=. It
// resolves chart coordinates to the nearest data point for tooltips; a
// miss is a 404.
func (h *MarketsHandler) ChartPoint(w http.ResponseWriter, r *http.Request) {
	symbol := chartSymbol(r.URL.Path)
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		WriteError(w, http.StatusBadRequest, "x and y query parameters must be numbers")
		return
	}

	c, err := h.buildChart(r, symbol)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	point, ok := c.Nearest(x, y)
	if !ok {
		WriteError(w, http.StatusNotFound, "no data point near the given coordinates")
		return
	}

	WriteJSON(w, http.StatusOK, point)
}

func (h *MarketsHandler) buildChart(r *http.Request, symbol string) (*chart.Chart, error) {
	series, err := h.market.GetDailySeries(r.Context(), symbol)
	if err != nil {
		return nil, err
	}
	return chart.Build(series, strings.ToUpper(symbol)), nil
}

// chartSymbol extracts the symbol from /api/markets/{symbol}/chart or
// /api/markets/{symbol}/chart/point.
func chartSymbol(path string) string {
	rest := strings.TrimPrefix(path, "/api/markets/")
	symbol, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(symbol))
}
