package tests

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// serverURL returns the finboard URL under test.
// Set FINBOARD_TEST_URL when running against a non-default port.
func serverURL() string {
	if url := os.Getenv("FINBOARD_TEST_URL"); url != "" {
		return url
	}
	return "http://localhost:4280"
}

// requireServer skips the test when no finboard instance is reachable.
// The UI suite runs against a live server started separately.
func requireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(serverURL() + "/api/health")
	if err != nil {
		t.Skipf("no server at %s: %v", serverURL(), err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Skipf("server at %s not healthy: %d", serverURL(), resp.StatusCode)
	}
}

// newBrowser creates a headless Chrome context with a 30s timeout.
func newBrowser(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	ctx, timeoutCancel := context.WithTimeout(ctx, 30*time.Second)

	cancel := func() {
		timeoutCancel()
		ctxCancel()
		allocCancel()
	}
	return ctx, cancel
}

// jsErrorCollector listens for JS exceptions and console.error calls.
// Call before chromedp.Navigate.
type jsErrorCollector struct {
	mu     sync.Mutex
	errors []string
}

func newJSErrorCollector(ctx context.Context) *jsErrorCollector {
	c := &jsErrorCollector{}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		c.mu.Lock()
		defer c.mu.Unlock()

		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			desc := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				desc = e.ExceptionDetails.Exception.Description
			}
			c.errors = append(c.errors, fmt.Sprintf("EXCEPTION: %s", desc))

		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				var parts []string
				for _, arg := range e.Args {
					if arg.Value != nil {
						parts = append(parts, string(arg.Value))
					} else if arg.Description != "" {
						parts = append(parts, arg.Description)
					}
				}
				if len(parts) > 0 {
					c.errors = append(c.errors, fmt.Sprintf("console.error: %s", parts))
				}
			}
		}
	})

	return c
}

func (c *jsErrorCollector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.errors))
	copy(out, c.errors)
	return out
}

// navigateAndWait loads the URL and gives page scripts a moment to run.
func navigateAndWait(ctx context.Context, url string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(800*time.Millisecond),
	)
}

// elementCount returns how many elements match the selector.
func elementCount(ctx context.Context, selector string) (int, error) {
	var count int
	err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%q).length`, selector), &count),
	)
	return count, err
}
