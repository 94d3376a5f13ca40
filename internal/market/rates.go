package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/models"
)

const ratesProvider = "rates"

// GetExchangeRates returns the rate table for a base currency, serving
// from cache when fresh.
func (s *Service) GetExchangeRates(ctx context.Context, base string) (*models.RateTable, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = "USD"
	}

	var cached models.RateTable
	if s.cache.GetInto(catRates, base, &cached) {
		return &cached, nil
	}

	u := fmt.Sprintf("%s/v6/latest/%s", s.cfg.Rates.BaseURL, url.PathEscape(base))
	body, err := s.getJSON(ctx, u)
	if err != nil {
		s.logger.Warn().Str("base", base).Str("error", err.Error()).Msg("rates fetch failed")
		return nil, err
	}

	table, err := parseRatesPayload(body)
	if err != nil {
		s.logger.Warn().Str("base", base).Str("error", err.Error()).Msg("rates payload rejected")
		return nil, err
	}
	table.FetchedAt = time.Now()

	s.cache.Set(catRates, base, table, common.FreshnessRates)
	return table, nil
}

// Convert converts an amount between two currencies using the rate table
// for the source currency.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}

	table, err := s.GetExchangeRates(ctx, from)
	if err != nil {
		return 0, err
	}
	rate, ok := table.Rates[to]
	if !ok {
		return 0, fmt.Errorf("no rate from %s to %s", from, to)
	}
	return amount * rate, nil
}

// parseRatesPayload extracts the base code and rate map from an
// open.er-api.com-style response. This provider signals failure by
// omitting the expected keys rather than by any status field, so
// extraction failure is the error convention.
func parseRatesPayload(body []byte) (*models.RateTable, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ProviderError{Provider: ratesProvider, Kind: KindMalformed, Message: err.Error()}
	}

	baseVal, err := jsonpath.Get("$.base_code", doc)
	if err != nil {
		return nil, &ProviderError{Provider: ratesProvider, Kind: KindMalformed, Message: "missing base_code"}
	}
	baseCode, ok := baseVal.(string)
	if !ok || baseCode == "" {
		return nil, &ProviderError{Provider: ratesProvider, Kind: KindMalformed, Message: "base_code is not a string"}
	}

	ratesVal, err := jsonpath.Get("$.rates", doc)
	if err != nil {
		return nil, &ProviderError{Provider: ratesProvider, Kind: KindMalformed, Message: "missing rates"}
	}
	rawRates, ok := ratesVal.(map[string]interface{})
	if !ok || len(rawRates) == 0 {
		return nil, &ProviderError{Provider: ratesProvider, Kind: KindMalformed, Message: "rates is empty"}
	}

	rates := make(map[string]float64, len(rawRates))
	for code, v := range rawRates {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		rates[code] = f
	}
	if len(rates) == 0 {
		return nil, &ProviderError{Provider: ratesProvider, Kind: KindMalformed, Message: "rates has no numeric entries"}
	}

	return &models.RateTable{Base: baseCode, Rates: rates}, nil
}
