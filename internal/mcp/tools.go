package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopspring/decimal"

	"github.com/kmcdade/finboard/internal/market"
	"github.com/kmcdade/finboard/internal/store"
)

func quoteTool() mcp.Tool {
	return mcp.NewTool("get_quote",
		mcp.WithDescription("Get the latest stock quote for a symbol."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock ticker symbol, e.g. AAPL"),
		),
	)
}

func quoteToolHandler(svc *market.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := r.GetString("symbol", "")
		if symbol == "" {
			return errorResult("symbol is required"), nil
		}

		quote, err := svc.GetQuote(ctx, symbol)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		out, err := json.Marshal(quote)
		if err != nil {
			return errorResult("failed to marshal quote"), nil
		}
		return textResult(string(out)), nil
	}
}

func portfolioTool() mcp.Tool {
	return mcp.NewTool("get_portfolio",
		mcp.WithDescription("List portfolio holdings with current market value where quotes are available."),
	)
}

func portfolioToolHandler(portfolio *store.Portfolio, svc *market.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		holdings := portfolio.Load()

		results := svc.RefreshQuotes(ctx, portfolio.Symbols())
		prices := make(map[string]float64, len(results))
		for _, res := range results {
			if res.Err == nil {
				prices[res.Symbol] = res.Quote.Price
			}
		}

		type row struct {
			Symbol   string `json:"symbol"`
			Quantity string `json:"quantity"`
			AvgCost  string `json:"avg_cost"`
			Cost     string `json:"cost"`
			Value    string `json:"value,omitempty"`
		}
		rows := make([]row, len(holdings))
		for i, h := range holdings {
			rows[i] = row{
				Symbol:   h.Symbol,
				Quantity: h.Quantity.String(),
				AvgCost:  h.AvgCost.StringFixed(2),
				Cost:     h.Cost().StringFixed(2),
			}
			if price, ok := prices[h.Symbol]; ok {
				rows[i].Value = h.Quantity.Mul(decimal.NewFromFloat(price)).StringFixed(2)
			}
		}

		out, err := json.Marshal(rows)
		if err != nil {
			return errorResult("failed to marshal holdings"), nil
		}
		return textResult(string(out)), nil
	}
}

func goalsTool() mcp.Tool {
	return mcp.NewTool("list_goals",
		mcp.WithDescription("List savings goals with progress."),
	)
}

func goalsToolHandler(goals *store.Goals) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type row struct {
			Name          string `json:"name"`
			TargetAmount  string `json:"target_amount"`
			CurrentAmount string `json:"current_amount"`
			ProgressPct   int    `json:"progress_pct"`
			Deadline      string `json:"deadline,omitempty"`
		}

		all := goals.Load()
		rows := make([]row, len(all))
		for i, g := range all {
			rows[i] = row{
				Name:          g.Name,
				TargetAmount:  g.TargetAmount.StringFixed(2),
				CurrentAmount: g.CurrentAmount.StringFixed(2),
				ProgressPct:   g.ProgressPct(),
				Deadline:      g.Deadline,
			}
		}

		out, err := json.Marshal(map[string]interface{}{
			"goals":       rows,
			"total_saved": goals.TotalSaved().StringFixed(2),
		})
		if err != nil {
			return errorResult("failed to marshal goals"), nil
		}
		return textResult(string(out)), nil
	}
}

func ratesTool() mcp.Tool {
	return mcp.NewTool("get_exchange_rates",
		mcp.WithDescription("Get exchange rates for a base currency (default USD)."),
		mcp.WithString("base",
			mcp.Description("ISO currency code, e.g. USD"),
		),
	)
}

func ratesToolHandler(svc *market.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := svc.GetExchangeRates(ctx, r.GetString("base", "USD"))
		if err != nil {
			return errorResult(err.Error()), nil
		}

		out, err := json.Marshal(table)
		if err != nil {
			return errorResult("failed to marshal rates"), nil
		}
		return textResult(string(out)), nil
	}
}

func balanceTool() mcp.Tool {
	return mcp.NewTool("get_balance",
		mcp.WithDescription("Get total income, total expenses, and net balance."),
	)
}

func balanceToolHandler(txs *store.Transactions) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(map[string]string{
			"income":   txs.TotalIncome().StringFixed(2),
			"expenses": txs.TotalExpenses().StringFixed(2),
			"net":      txs.NetBalance().StringFixed(2),
		})
		if err != nil {
			return errorResult("failed to marshal balance"), nil
		}
		return textResult(string(out)), nil
	}
}
