package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kmcdade/finboard/internal/cache"
	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/config"
	"github.com/kmcdade/finboard/internal/interfaces"
)

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryKV) GetAll(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

// newTestService wires a Service against a fake provider server. All three
// providers share the one base URL, which is fine for tests since their
// paths never collide.
func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.ProvidersConfig{
		Stocks: config.ProviderConfig{BaseURL: srv.URL, APIKey: "test"},
		News:   config.ProviderConfig{BaseURL: srv.URL, APIKey: "test"},
		Rates:  config.ProviderConfig{BaseURL: srv.URL, APIKey: "test"},
	}
	store := cache.New(newMemoryKV(), common.NewSilentLogger())
	return NewService(cfg, store, common.NewSilentLogger()), srv
}

const globalQuoteBody = `{
	"Global Quote": {
		"01. symbol": "AAPL",
		"02. open": "148.50",
		"03. high": "151.20",
		"04. low": "148.10",
		"05. price": "150.00",
		"06. volume": "52000000",
		"07. latest trading day": "2026-08-28",
		"08. previous close": "149.00",
		"09. change": "1.00",
		"10. change percent": "0.6711%"
	}
}`

func TestGetQuote(t *testing.T) {
	var calls int
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q, want GLOBAL_QUOTE", got)
		}
		fmt.Fprint(w, globalQuoteBody)
	}))

	quote, err := svc.GetQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", quote.Symbol)
	}
	if quote.Price != 150.00 {
		t.Errorf("price = %v, want 150.00", quote.Price)
	}
	if quote.ChangePct != 0.6711 {
		t.Errorf("change pct = %v, want 0.6711", quote.ChangePct)
	}
	if quote.Volume != 52000000 {
		t.Errorf("volume = %v, want 52000000", quote.Volume)
	}

	// Second call must come from cache.
	if _, err := svc.GetQuote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("cached GetQuote failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1", calls)
	}
}

func TestGetQuoteRateLimited(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using our API. Our standard API rate limit is 25 requests per day."}`)
	}))

	_, err := svc.GetQuote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for rate-limited response")
	}
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited = false for %v", err)
	}
}

func TestGetQuoteInformationIsRateLimited(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Information": "Premium endpoint. Please subscribe."}`)
	}))

	_, err := svc.GetQuote(context.Background(), "AAPL")
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited = false for %v", err)
	}
}

func TestGetQuoteUpstreamError(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Error Message": "Invalid API call."}`)
	}))

	_, err := svc.GetQuote(context.Background(), "NOPE")
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Kind != KindUpstreamError {
		t.Errorf("kind = %q, want %q", pe.Kind, KindUpstreamError)
	}
}

func TestGetQuoteEmptyEnvelope(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote": {}}`)
	}))

	_, err := svc.GetQuote(context.Background(), "AAPL")
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Kind != KindMalformed {
		t.Errorf("expected malformed ProviderError, got %v", err)
	}
}

func TestGetDailySeries(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"Time Series (Daily)": {
				"2026-08-26": {"1. open": "147.0", "2. high": "149.0", "3. low": "146.5", "4. close": "148.0", "5. volume": "40000000"},
				"2026-08-28": {"1. open": "148.5", "2. high": "151.2", "3. low": "148.1", "4. close": "150.0", "5. volume": "52000000"},
				"2026-08-27": {"1. open": "148.0", "2. high": "149.5", "3. low": "147.0", "4. close": "149.0", "5. volume": "45000000"}
			}
		}`)
	}))

	series, err := svc.GetDailySeries(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetDailySeries failed: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("len = %d, want 3", len(series))
	}
	// Newest first regardless of provider map order.
	wantDates := []string{"2026-08-28", "2026-08-27", "2026-08-26"}
	for i, want := range wantDates {
		if series[i].Date != want {
			t.Errorf("series[%d].Date = %q, want %q", i, series[i].Date, want)
		}
	}
	if series[0].Close != 150.0 {
		t.Errorf("newest close = %v, want 150.0", series[0].Close)
	}
}

func TestSearchSymbols(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"bestMatches": [
				{"1. symbol": "AAPL", "2. name": "Apple Inc", "3. type": "Equity", "4. region": "United States", "8. currency": "USD"},
				{"1. symbol": "APLE", "2. name": "Apple Hospitality REIT", "3. type": "Equity", "4. region": "United States", "8. currency": "USD"}
			]
		}`)
	}))

	matches, err := svc.SearchSymbols(context.Background(), "apple")
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len = %d, want 2", len(matches))
	}
	if matches[0].Symbol != "AAPL" || matches[0].Name != "Apple Inc" {
		t.Errorf("first match = %+v", matches[0])
	}
}

func TestGetTopHeadlines(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/top-headlines" {
			t.Errorf("path = %q, want /v2/top-headlines", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"status": "ok",
			"articles": [
				{"title": "Markets rally", "description": "Stocks up", "url": "https://example.com/1", "publishedAt": "2026-08-28T10:00:00Z", "source": {"name": "Example News"}},
				{"title": "", "url": "https://example.com/2", "source": {"name": "Skipped"}},
				{"title": "Fed holds rates", "url": "https://example.com/3", "publishedAt": "2026-08-28T09:00:00Z", "source": {"name": "Example News"}}
			]
		}`)
	}))

	articles, err := svc.GetTopHeadlines(context.Background(), "us")
	if err != nil {
		t.Fatalf("GetTopHeadlines failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len = %d, want 2 (untitled article skipped)", len(articles))
	}
	if articles[0].Source != "Example News" {
		t.Errorf("source = %q", articles[0].Source)
	}
}

func TestNewsStatusError(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "code": "apiKeyInvalid", "message": "Your API key is invalid."}`)
	}))

	_, err := svc.GetTopHeadlines(context.Background(), "us")
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Kind != KindUpstreamError {
		t.Errorf("kind = %q, want %q", pe.Kind, KindUpstreamError)
	}
}

func TestNewsRateLimitedCode(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "code": "rateLimited", "message": "You have been rate limited."}`)
	}))

	_, err := svc.SearchNews(context.Background(), "apple")
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited = false for %v", err)
	}
}

func TestGetExchangeRates(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/latest/USD" {
			t.Errorf("path = %q, want /v6/latest/USD", r.URL.Path)
		}
		fmt.Fprint(w, `{"result": "success", "base_code": "USD", "rates": {"USD": 1, "EUR": 0.92, "GBP": 0.79}}`)
	}))

	table, err := svc.GetExchangeRates(context.Background(), "usd")
	if err != nil {
		t.Fatalf("GetExchangeRates failed: %v", err)
	}
	if table.Base != "USD" {
		t.Errorf("base = %q, want USD", table.Base)
	}
	if table.Rates["EUR"] != 0.92 {
		t.Errorf("EUR rate = %v, want 0.92", table.Rates["EUR"])
	}
}

func TestGetExchangeRatesMissingKeys(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": "error", "error-type": "unsupported-code"}`)
	}))

	_, err := svc.GetExchangeRates(context.Background(), "XXX")
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Kind != KindMalformed {
		t.Errorf("expected malformed ProviderError, got %v", err)
	}
}

func TestConvert(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"base_code": "USD", "rates": {"USD": 1, "EUR": 0.92}}`)
	}))

	got, err := svc.Convert(context.Background(), 100, "USD", "EUR")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if got != 92.0 {
		t.Errorf("converted = %v, want 92.0", got)
	}

	same, err := svc.Convert(context.Background(), 5, "USD", "USD")
	if err != nil || same != 5 {
		t.Errorf("same-currency convert = %v, %v", same, err)
	}
}

func TestRefreshQuotes(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "BAD" {
			fmt.Fprint(w, `{"Error Message": "Invalid API call."}`)
			return
		}
		fmt.Fprintf(w, `{"Global Quote": {"01. symbol": %q, "05. price": "42.00"}}`, symbol)
	}))

	results := svc.RefreshQuotes(context.Background(), []string{"AAPL", "BAD", "MSFT"})
	if len(results) != 3 {
		t.Fatalf("len = %d, want 3", len(results))
	}
	for i, want := range []string{"AAPL", "BAD", "MSFT"} {
		if results[i].Symbol != want {
			t.Errorf("results[%d].Symbol = %q, want %q", i, results[i].Symbol, want)
		}
	}
	if results[0].Err != nil || results[0].Quote == nil || results[0].Quote.Price != 42.0 {
		t.Errorf("AAPL result = %+v", results[0])
	}
	if results[1].Err == nil {
		t.Error("BAD result should carry an error")
	}
	if results[2].Err != nil {
		t.Errorf("MSFT result failed: %v", results[2].Err)
	}
}

func TestSearcherSupersedes(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bestMatches": [{"1. symbol": "AAPL", "2. name": "Apple Inc"}]}`)
	}))

	searcher := NewSearcher(svc)

	// Simulate a newer query arriving while the first is "in flight" by
	// bumping the token between the fetch and the check.
	searcher.token.Store(1)
	matches, err := svc.SearchSymbols(context.Background(), "app")
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("len = %d, want 1", len(matches))
	}

	// A live Search with no competition delivers its result.
	got, err := searcher.Search(context.Background(), "apple")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Errorf("matches = %+v", got)
	}
}

func TestSearcherStaleResultDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("keywords") == "slow" {
			close(started)
			<-release
		}
		fmt.Fprint(w, `{"bestMatches": [{"1. symbol": "AAPL", "2. name": "Apple Inc"}]}`)
	}))

	searcher := NewSearcher(svc)

	done := make(chan error, 1)
	go func() {
		_, err := searcher.Search(context.Background(), "slow")
		done <- err
	}()
	<-started

	// A newer query finishing first supersedes the slow one.
	if _, err := searcher.Search(context.Background(), "fast"); err != nil {
		t.Fatalf("fast Search failed: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("slow Search error = %v, want ErrSuperseded", err)
	}
}

func TestProviderHTTPError(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	if _, err := svc.GetQuote(context.Background(), "AAPL"); err == nil {
		t.Error("expected error for HTTP 502")
	}
}
