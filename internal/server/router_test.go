package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kidcalc/internal/calculator"
	"kidcalc/internal/gamification"
	"kidcalc/internal/observability"
	"kidcalc/internal/scheduler"
	"kidcalc/internal/session"
	"kidcalc/internal/storage"
	"kidcalc/internal/testutil"

	"github.com/google/uuid"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := scheduler.NewManualClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	s := session.New(context.Background(), store, clock, session.DefaultOptions())
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestHealthEndpoint(t *testing.T) {
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/health", nil), NewRouter(Options{}))

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestCalculatorRouteCarriesRequestIDHeaderOnly(t *testing.T) {
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	req := testutil.JSONRequest(t, http.MethodPost, "/calculator/add", calculator.CalcRequest{A: 2, B: 3})
	w := testutil.ExecuteRequest(req, NewRouter(Options{}))
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get(observability.RequestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in %s, got %q: %v", observability.RequestIDHeader, requestID, err)
	}

	var payload map[string]any
	testutil.DecodeJSONBody(t, w.Body, &payload)
	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}
	if payload["display"] != "5" {
		t.Fatalf("expected display 5, got %#v", payload["display"])
	}
}

func TestSessionRoutesNeedASession(t *testing.T) {
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/session/state", nil), NewRouter(Options{}))
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestSessionRoutesMounted(t *testing.T) {
	router := NewRouter(Options{Session: newTestSession(t)})

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/session/state", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var snap session.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
	if snap.Calculator.DisplayValue != "0" {
		t.Fatalf("expected display 0, got %q", snap.Calculator.DisplayValue)
	}

	// A plain GET without the upgrade handshake is rejected by the stream.
	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/session/stream", nil), router)
	if w.Code == http.StatusNotFound || w.Code == http.StatusOK {
		t.Fatalf("expected the stream to refuse a non-upgrade request, got %d", w.Code)
	}
}

func TestMetricsEndpointExposesProgress(t *testing.T) {
	s := newTestSession(t)
	if err := gamification.RegisterMetrics(observability.Registry, s.Engine()); err != nil {
		t.Fatalf("RegisterMetrics: %v", err)
	}

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), NewRouter(Options{Session: s}))
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, name := range []string{"go_goroutines", "kidcalc_gamification_points"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in /metrics output", name)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(Options{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/session/keys", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := testutil.ExecuteRequest(req, router)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestReadyNeedsStore(t *testing.T) {
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/ready", nil), NewRouter(Options{}))
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)

	s := newTestSession(t)
	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/ready", nil), NewRouter(Options{Session: s}))
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	s.Store().Close()
	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/ready", nil), NewRouter(Options{Session: s}))
	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, w.Code)
}
