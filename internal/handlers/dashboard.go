package handlers

import (
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kmcdade/finboard/internal/chart"
	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/market"
	"github.com/kmcdade/finboard/internal/store"
)

// DashboardHandler renders the dashboard page: portfolio valuation, the
// price chart for the selected symbol, and headline totals.
type DashboardHandler struct {
	logger    *common.Logger
	pages     *PageHandler
	portfolio *store.Portfolio
	goals     *store.Goals
	txs       *store.Transactions
	market    *market.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(logger *common.Logger, pages *PageHandler, portfolio *store.Portfolio, goals *store.Goals, txs *store.Transactions, marketSvc *market.Service) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		pages:     pages,
		portfolio: portfolio,
		goals:     goals,
		txs:       txs,
		market:    marketSvc,
	}
}

// holdingRow is one valued portfolio position for display.
type holdingRow struct {
	Symbol     string
	Quantity   string
	AvgCost    string
	Cost       string
	Price      string
	Value      string
	Gain       string
	GainPct    string
	HasQuote   bool
	QuoteError string
}

// ServeHTTP renders the dashboard page. Quote failures degrade to
// cost-basis rows instead of failing the page.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	holdings := h.portfolio.Load()

	results := h.market.RefreshQuotes(r.Context(), h.portfolio.Symbols())
	quotes := make(map[string]float64, len(results))
	quoteErrs := make(map[string]string)
	for _, res := range results {
		if res.Err != nil {
			quoteErrs[res.Symbol] = res.Err.Error()
			continue
		}
		quotes[res.Symbol] = res.Quote.Price
	}

	rows := make([]holdingRow, 0, len(holdings))
	totalCost := decimal.Zero
	totalValue := decimal.Zero
	for _, holding := range holdings {
		cost := holding.Cost()
		totalCost = totalCost.Add(cost)

		row := holdingRow{
			Symbol:   holding.Symbol,
			Quantity: holding.Quantity.String(),
			AvgCost:  common.FormatDecimalMoney(holding.AvgCost),
			Cost:     common.FormatDecimalMoney(cost),
		}

		if price, ok := quotes[holding.Symbol]; ok {
			value := holding.Quantity.Mul(decimal.NewFromFloat(price))
			gain := value.Sub(cost)
			totalValue = totalValue.Add(value)

			row.HasQuote = true
			row.Price = common.FormatMoney(price)
			row.Value = common.FormatDecimalMoney(value)
			row.Gain = common.FormatDecimalMoney(gain)
			if cost.Sign() > 0 {
				pct, _ := gain.Div(cost).Mul(decimal.NewFromInt(100)).Float64()
				row.GainPct = common.FormatSignedPct(pct)
			}
		} else {
			// No live price; count the position at cost.
			totalValue = totalValue.Add(cost)
			row.QuoteError = quoteErrs[holding.Symbol]
		}
		rows = append(rows, row)
	}

	chartSymbol := r.URL.Query().Get("symbol")
	if chartSymbol == "" && len(holdings) > 0 {
		chartSymbol = holdings[0].Symbol
	}

	chartSVG := ""
	if chartSymbol != "" {
		series, err := h.market.GetDailySeries(r.Context(), chartSymbol)
		if err != nil {
			h.logger.Warn().Str("symbol", chartSymbol).Str("error", err.Error()).Msg("dashboard chart unavailable")
		} else {
			chartSVG = chart.Build(series, chartSymbol).SVG()
		}
	}

	totalGain := totalValue.Sub(totalCost)
	data := map[string]interface{}{
		"Page":        "dashboard",
		"Holdings":    rows,
		"TotalCost":   common.FormatDecimalMoney(totalCost),
		"TotalValue":  common.FormatDecimalMoney(totalValue),
		"TotalGain":   common.FormatDecimalMoney(totalGain),
		"TotalSaved":  common.FormatDecimalMoney(h.goals.TotalSaved()),
		"NetBalance":  common.FormatDecimalMoney(h.txs.NetBalance()),
		"ChartSymbol": chartSymbol,
		"ChartSVG":    template.HTML(chartSVG),
	}

	h.pages.Render(w, "dashboard.html", data)
}
