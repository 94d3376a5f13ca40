// Package mcp exposes finboard data over the Model Context Protocol so
// assistants can query portfolio state and market data. The handler wraps
// mcp-go's StreamableHTTPServer in stateless mode; every tool reads the
// same stores the HTTP handlers use.
package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/config"
	"github.com/kmcdade/finboard/internal/market"
	"github.com/kmcdade/finboard/internal/store"
)

// Handler is the HTTP handler for the MCP endpoint.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// Stores bundles the collections the MCP tools read.
type Stores struct {
	Portfolio    *store.Portfolio
	Goals        *store.Goals
	Transactions *store.Transactions
}

// NewHandler creates the MCP handler and registers the local tool set.
func NewHandler(stores Stores, marketSvc *market.Service, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"finboard",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(quoteTool(), quoteToolHandler(marketSvc))
	mcpSrv.AddTool(portfolioTool(), portfolioToolHandler(stores.Portfolio, marketSvc))
	mcpSrv.AddTool(goalsTool(), goalsToolHandler(stores.Goals))
	mcpSrv.AddTool(ratesTool(), ratesToolHandler(marketSvc))
	mcpSrv.AddTool(balanceTool(), balanceToolHandler(stores.Transactions))

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().Int("tools", 5).Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the streamable MCP server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// textResult creates an MCP text result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
