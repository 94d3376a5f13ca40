package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kmcdade/finboard/internal/app"
	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/config"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Error("expected version field in response")
	}
}

func TestRoutes_APINotFound(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("GET", "/api/nonexistent", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRoutes_PortfolioCRUD(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	// Create
	body := `{"symbol": "AAPL", "quantity": "10", "avg_cost": "150.00"}`
	req := httptest.NewRequest("POST", "/api/portfolio", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	// List
	req = httptest.NewRequest("GET", "/api/portfolio", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	// Delete
	req = httptest.NewRequest("DELETE", "/api/portfolio/"+created.ID, nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("PATCH", "/api/portfolio", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestRoutes_GoalsProgress(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("POST", "/api/goals", strings.NewReader(`{"name": "Car", "target_amount": "5000"}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	req = httptest.NewRequest("POST", "/api/goals/"+created.ID+"/progress", strings.NewReader(`{"amount": "500"}`))
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var goal struct {
		ProgressPct int `json:"progress_pct"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &goal); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if goal.ProgressPct != 10 {
		t.Errorf("expected 10%% progress, got %d", goal.ProgressPct)
	}
}

func TestRoutes_SettingsRoundTrip(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("PUT", "/api/settings", strings.NewReader(`{"display_currency": "gbp"}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/settings", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var settings struct {
		DisplayCurrency string `json:"display_currency"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if settings.DisplayCurrency != "GBP" {
		t.Errorf("expected GBP, got %s", settings.DisplayCurrency)
	}
}
