// Package market wraps the external REST data providers (stock quotes and
// series, news, exchange rates) behind normalized shapes, with a cache
// consulted before every request. Failures are logged and returned to the
// caller unchanged; nothing is retried.
package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kmcdade/finboard/internal/cache"
	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/config"
)

// Cache categories, one per data kind. Each category uses the stored-TTL
// expiry scheme; see internal/common/freshness.go for the windows.
const (
	catQuotes       = "quotes"
	catStockPrices  = "stockPrices"
	catSymbolSearch = "symbolSearch"
	catNews         = "news"
	catRates        = "exchangeRates"
)

// Service fronts all three providers with one HTTP client and one cache.
type Service struct {
	httpClient *http.Client
	cache      *cache.Store
	cfg        config.ProvidersConfig
	logger     *common.Logger
}

// NewService creates a market data service.
func NewService(cfg config.ProvidersConfig, cacheStore *cache.Store, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cacheStore,
		cfg:        cfg,
		logger:     logger,
	}
}

// Cache exposes the underlying cache store (stats, manual eviction).
func (s *Service) Cache() *cache.Store {
	return s.cache
}

// getJSON performs one GET request and returns the response body.
func (s *Service) getJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "finboard/"+config.GetVersion())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
