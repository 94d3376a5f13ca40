// Package app wires configuration, storage, stores, services, and HTTP
// handlers into one application object.
package app

import (
	"fmt"

	"github.com/kmcdade/finboard/internal/cache"
	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/config"
	"github.com/kmcdade/finboard/internal/handlers"
	"github.com/kmcdade/finboard/internal/interfaces"
	"github.com/kmcdade/finboard/internal/market"
	"github.com/kmcdade/finboard/internal/mcp"
	"github.com/kmcdade/finboard/internal/storage"
	"github.com/kmcdade/finboard/internal/store"
)

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	Cache  *cache.Store
	Market *market.Service

	Portfolio    *store.Portfolio
	Transactions *store.Transactions
	Expenses     *store.Expenses
	Goals        *store.Goals
	Cart         *store.Cart
	Settings     *store.Settings

	// HTTP handlers
	PageHandler      *handlers.PageHandler
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	DashboardHandler *handlers.DashboardHandler
	PortfolioHandler *handlers.PortfolioHandler
	SpendingHandler  *handlers.SpendingHandler
	GoalsHandler     *handlers.GoalsHandler
	CheckoutHandler  *handlers.CheckoutHandler
	MarketsHandler   *handlers.MarketsHandler
	SettingsHandler  *handlers.SettingsHandler
	MCPHandler       *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = storageManager

	kv := storageManager.KeyValueStorage()
	a.Cache = cache.New(kv, logger)
	a.Market = market.NewService(cfg.Providers, a.Cache, logger)

	a.Portfolio = store.NewPortfolio(kv, logger)
	a.Transactions = store.NewTransactions(kv, logger)
	a.Expenses = store.NewExpenses(kv, logger)
	a.Goals = store.NewGoals(kv, logger)
	a.Cart = store.NewCart(kv, logger)
	a.Settings = store.NewSettings(kv, logger)

	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.PortfolioHandler = handlers.NewPortfolioHandler(a.Logger, a.Portfolio, a.Market)
	a.SpendingHandler = handlers.NewSpendingHandler(a.Logger, a.Transactions, a.Expenses)
	a.GoalsHandler = handlers.NewGoalsHandler(a.Logger, a.Goals)
	a.CheckoutHandler = handlers.NewCheckoutHandler(a.Logger, a.Cart, a.Transactions)
	a.MarketsHandler = handlers.NewMarketsHandler(a.Logger, a.Market)
	a.SettingsHandler = handlers.NewSettingsHandler(a.Logger, a.Settings)

	a.DashboardHandler = handlers.NewDashboardHandler(a.Logger, a.PageHandler, a.Portfolio, a.Goals, a.Transactions, a.Market)

	a.MCPHandler = mcp.NewHandler(mcp.Stores{
		Portfolio:    a.Portfolio,
		Goals:        a.Goals,
		Transactions: a.Transactions,
	}, a.Market, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
