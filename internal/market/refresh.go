package market

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kmcdade/finboard/internal/models"
)

// QuoteResult pairs one symbol with its refresh outcome. Responses from
// concurrent fetches are keyed by symbol so callers never misattribute a
// quote to the wrong position.
type QuoteResult struct {
	Symbol string
	Quote  *models.Quote
	Err    error
}

// RefreshQuotes fetches quotes for all symbols concurrently and returns
// one result per symbol. Order of results matches the input order; a
// failed symbol carries its error and does not block the rest.
func (s *Service) RefreshQuotes(ctx context.Context, symbols []string) []QuoteResult {
	results := make([]QuoteResult, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quote, err := s.GetQuote(ctx, symbol)
			results[i] = QuoteResult{Symbol: symbol, Quote: quote, Err: err}
		}(i, symbol)
	}
	wg.Wait()

	return results
}

// Searcher serializes symbol searches so that only the most recent query's
// results are delivered. Each Search call invalidates all earlier in-flight
// calls; a stale call returns ErrSuperseded even if its fetch succeeded.
type Searcher struct {
	service *Service
	token   atomic.Uint64
}

// NewSearcher creates a searcher over the service.
func NewSearcher(service *Service) *Searcher {
	return &Searcher{service: service}
}

// Search runs a symbol search, discarding the result if a newer Search
// started while this one was in flight.
func (r *Searcher) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	token := r.token.Add(1)

	matches, err := r.service.SearchSymbols(ctx, query)

	if r.token.Load() != token {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return matches, nil
}
