package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/models"
)

const stocksProvider = "stocks"

// GetQuote returns a live quote for symbol, serving from cache when fresh.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol must not be empty")
	}

	var cached models.Quote
	if s.cache.GetInto(catQuotes, symbol, &cached) {
		return &cached, nil
	}

	u := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		s.cfg.Stocks.BaseURL, url.QueryEscape(symbol), url.QueryEscape(s.cfg.Stocks.APIKey))
	body, err := s.getJSON(ctx, u)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Str("error", err.Error()).Msg("quote fetch failed")
		return nil, err
	}

	quote, err := parseQuotePayload(body)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Str("error", err.Error()).Msg("quote payload rejected")
		return nil, err
	}
	quote.Symbol = symbol
	quote.FetchedAt = time.Now()

	s.cache.Set(catQuotes, symbol, quote, common.FreshnessQuote)
	return quote, nil
}

// GetDailySeries returns the daily price series for symbol, newest first,
// serving from cache when fresh.
func (s *Service) GetDailySeries(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol must not be empty")
	}

	var cached []models.PricePoint
	if s.cache.GetInto(catStockPrices, symbol, &cached) {
		return cached, nil
	}

	u := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s",
		s.cfg.Stocks.BaseURL, url.QueryEscape(symbol), url.QueryEscape(s.cfg.Stocks.APIKey))
	body, err := s.getJSON(ctx, u)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Str("error", err.Error()).Msg("series fetch failed")
		return nil, err
	}

	series, err := parseDailySeriesPayload(body)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Str("error", err.Error()).Msg("series payload rejected")
		return nil, err
	}

	s.cache.Set(catStockPrices, symbol, series, common.FreshnessDailySeries)
	return series, nil
}

// SearchSymbols returns symbol matches for the query, serving from cache
// when fresh.
func (s *Service) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	cacheKey := strings.ToLower(query)
	var cached []models.SymbolMatch
	if s.cache.GetInto(catSymbolSearch, cacheKey, &cached) {
		return cached, nil
	}

	u := fmt.Sprintf("%s/query?function=SYMBOL_SEARCH&keywords=%s&apikey=%s",
		s.cfg.Stocks.BaseURL, url.QueryEscape(query), url.QueryEscape(s.cfg.Stocks.APIKey))
	body, err := s.getJSON(ctx, u)
	if err != nil {
		s.logger.Warn().Str("query", query).Str("error", err.Error()).Msg("symbol search failed")
		return nil, err
	}

	matches, err := parseSymbolSearchPayload(body)
	if err != nil {
		s.logger.Warn().Str("query", query).Str("error", err.Error()).Msg("symbol search payload rejected")
		return nil, err
	}

	s.cache.Set(catSymbolSearch, cacheKey, matches, common.FreshnessSymbolSearch)
	return matches, nil
}

// stocksEnvelopeError inspects the provider's own error signaling: an
// "Error Message" for bad requests, "Note" or "Information" for
// rate-limit notices.
func stocksEnvelopeError(raw map[string]json.RawMessage) error {
	if msg, ok := raw["Error Message"]; ok {
		return &ProviderError{Provider: stocksProvider, Kind: KindUpstreamError, Message: rawString(msg)}
	}
	if msg, ok := raw["Note"]; ok {
		return &ProviderError{Provider: stocksProvider, Kind: KindRateLimited, Message: rawString(msg)}
	}
	if msg, ok := raw["Information"]; ok {
		return &ProviderError{Provider: stocksProvider, Kind: KindRateLimited, Message: rawString(msg)}
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

// parseQuotePayload normalizes a GLOBAL_QUOTE response.
func parseQuotePayload(body []byte) (*models.Quote, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: err.Error()}
	}
	if err := stocksEnvelopeError(raw); err != nil {
		return nil, err
	}

	envelope, ok := raw["Global Quote"]
	if !ok {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: "missing Global Quote envelope"}
	}

	var fields map[string]string
	if err := json.Unmarshal(envelope, &fields); err != nil || len(fields) == 0 {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: "empty Global Quote envelope"}
	}

	quote := &models.Quote{
		Symbol:        fields["01. symbol"],
		Open:          parseFloat(fields["02. open"]),
		High:          parseFloat(fields["03. high"]),
		Low:           parseFloat(fields["04. low"]),
		Price:         parseFloat(fields["05. price"]),
		Volume:        int64(parseFloat(fields["06. volume"])),
		LatestDay:     fields["07. latest trading day"],
		PreviousClose: parseFloat(fields["08. previous close"]),
		Change:        parseFloat(fields["09. change"]),
		ChangePct:     parseFloat(strings.TrimSuffix(fields["10. change percent"], "%")),
	}
	if quote.Price == 0 {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: "quote has no price"}
	}
	return quote, nil
}

// parseDailySeriesPayload normalizes a TIME_SERIES_DAILY response into
// PricePoints ordered newest first.
func parseDailySeriesPayload(body []byte) ([]models.PricePoint, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: err.Error()}
	}
	if err := stocksEnvelopeError(raw); err != nil {
		return nil, err
	}

	envelope, ok := raw["Time Series (Daily)"]
	if !ok {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: "missing Time Series (Daily) envelope"}
	}

	var days map[string]map[string]string
	if err := json.Unmarshal(envelope, &days); err != nil {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: err.Error()}
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	// Newest first; "2006-01-02" keys sort chronologically as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	series := make([]models.PricePoint, 0, len(dates))
	for _, date := range dates {
		bar := days[date]
		series = append(series, models.PricePoint{
			Date:   date,
			Open:   parseFloat(bar["1. open"]),
			High:   parseFloat(bar["2. high"]),
			Low:    parseFloat(bar["3. low"]),
			Close:  parseFloat(bar["4. close"]),
			Volume: int64(parseFloat(bar["5. volume"])),
		})
	}
	return series, nil
}

// parseSymbolSearchPayload normalizes a SYMBOL_SEARCH response.
func parseSymbolSearchPayload(body []byte) ([]models.SymbolMatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: err.Error()}
	}
	if err := stocksEnvelopeError(raw); err != nil {
		return nil, err
	}

	envelope, ok := raw["bestMatches"]
	if !ok {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: "missing bestMatches envelope"}
	}

	var rows []map[string]string
	if err := json.Unmarshal(envelope, &rows); err != nil {
		return nil, &ProviderError{Provider: stocksProvider, Kind: KindMalformed, Message: err.Error()}
	}

	matches := make([]models.SymbolMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, models.SymbolMatch{
			Symbol:   row["1. symbol"],
			Name:     row["2. name"],
			Type:     row["3. type"],
			Region:   row["4. region"],
			Currency: row["8. currency"],
		})
	}
	return matches, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
