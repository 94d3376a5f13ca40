package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/portfolio", s.app.PageHandler.ServePage("portfolio.html", "portfolio"))
	mux.HandleFunc("/spending", s.app.PageHandler.ServePage("spending.html", "spending"))
	mux.HandleFunc("/goals", s.app.PageHandler.ServePage("goals.html", "goals"))
	mux.HandleFunc("/markets", s.app.PageHandler.ServePage("markets.html", "markets"))
	mux.HandleFunc("/checkout", s.app.PageHandler.ServePage("checkout.html", "checkout"))
	mux.HandleFunc("/settings", s.app.PageHandler.ServePage("settings.html", "settings"))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Portfolio API
	mux.HandleFunc("/api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.PortfolioHandler.List, s.app.PortfolioHandler.Create)
	})
	mux.HandleFunc("/api/portfolio/refresh", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"POST": s.app.PortfolioHandler.Refresh})
	})
	mux.HandleFunc("/api/portfolio/", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, nil, s.app.PortfolioHandler.Update, s.app.PortfolioHandler.Delete)
	})

	// Transactions API
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.SpendingHandler.ListTransactions, s.app.SpendingHandler.CreateTransaction)
	})
	mux.HandleFunc("/api/transactions/balance", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"GET": s.app.SpendingHandler.Balance})
	})
	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, nil, nil, s.app.SpendingHandler.DeleteTransaction)
	})

	// Expenses API
	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.SpendingHandler.ListExpenses, s.app.SpendingHandler.CreateExpense)
	})
	mux.HandleFunc("/api/expenses/totals", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"GET": s.app.SpendingHandler.ExpenseTotals})
	})
	mux.HandleFunc("/api/expenses/", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, nil, s.app.SpendingHandler.UpdateExpense, s.app.SpendingHandler.DeleteExpense)
	})

	// Goals API
	mux.HandleFunc("/api/goals", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.GoalsHandler.List, s.app.GoalsHandler.Create)
	})
	mux.HandleFunc("/api/goals/", s.handleGoalItem)

	// Cart API
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.CheckoutHandler.List, s.app.CheckoutHandler.AddItem)
	})
	mux.HandleFunc("/api/cart/checkout", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"POST": s.app.CheckoutHandler.Checkout})
	})
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, nil, s.app.CheckoutHandler.UpdateQuantity, s.app.CheckoutHandler.RemoveItem)
	})

	// Market data API
	mux.HandleFunc("/api/markets/quote", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"GET": s.app.MarketsHandler.Quote})
	})
	mux.HandleFunc("/api/markets/series", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"GET": s.app.MarketsHandler.Series})
	})
	mux.HandleFunc("/api/markets/search", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"GET": s.app.MarketsHandler.Search})
	})
	mux.HandleFunc("/api/markets/news", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"GET": s.app.MarketsHandler.News})
	})
	mux.HandleFunc("/api/markets/rates", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{"GET": s.app.MarketsHandler.Rates})
	})
	mux.HandleFunc("/api/markets/", s.handleMarketChart)

	// Settings API
	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			"GET": s.app.SettingsHandler.Get,
			"PUT": s.app.SettingsHandler.Update,
		})
	})

	// API meta routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleRoot serves the dashboard at / and 404s everything else, since the
// root pattern matches every unrouted path.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.app.DashboardHandler.ServeHTTP(w, r)
}

// handleGoalItem routes /api/goals/{id} and /api/goals/{id}/progress.
func (s *Server) handleGoalItem(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/progress") {
		RouteByMethod(w, r, MethodRouter{"POST": s.app.GoalsHandler.AddProgress})
		return
	}
	RouteResourceItem(w, r, nil, s.app.GoalsHandler.Update, s.app.GoalsHandler.Delete)
}

// handleMarketChart routes /api/markets/{symbol}/chart and
// /api/markets/{symbol}/chart/point.
func (s *Server) handleMarketChart(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/chart/point"):
		RouteByMethod(w, r, MethodRouter{"GET": s.app.MarketsHandler.ChartPoint})
	case strings.HasSuffix(r.URL.Path, "/chart"):
		RouteByMethod(w, r, MethodRouter{"GET": s.app.MarketsHandler.Chart})
	default:
		s.handleNotFound(w, r)
	}
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
