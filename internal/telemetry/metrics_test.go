package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveResolution("weekly")
	m.ObserveParseFailure("weight")
	m.ObserveUnknownKeys(3)
	m.ObservePublish(PublishSaved)
	m.SetCurrentWeek(1)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected 418, got %d", rec.Code)
	}
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveResolution("weekly")
	m.ObserveResolution("weekly")
	m.ObserveResolution("custom")
	m.ObserveUnknownKeys(2)
	m.ObserveUnknownKeys(0)
	m.ObservePublish(PublishExists)
	m.SetCurrentWeek(739046)

	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("weekly")); got != 2 {
		t.Errorf("Expected 2 weekly resolutions, got %v", got)
	}
	if got := testutil.ToFloat64(m.unknownKeys); got != 2 {
		t.Errorf("Expected 2 unknown keys, got %v", got)
	}
	if got := testutil.ToFloat64(m.publishes.WithLabelValues(PublishExists)); got != 1 {
		t.Errorf("Expected 1 exists publish, got %v", got)
	}
	if got := testutil.ToFloat64(m.currentDay); got != 739046 {
		t.Errorf("Expected current day 739046, got %v", got)
	}
}

func TestRouter_Healthz(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	var current snapshot.Current
	router := NewRouter(m, reg, &current)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before first publish, got %d", rec.Code)
	}

	current.Update(&snapshot.Snapshot{ID: "739046", Kind: snapshot.KindWeekly, DisplayName: "June 9, 2024", ETag: `W/"abc"`})

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("ETag") != `W/"abc"` {
		t.Errorf("Expected ETag header, got %q", rec.Header().Get("ETag"))
	}
	var body Health
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if body.Status != "ok" || body.Current == nil || body.Current.ID != "739046" {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestRouter_MetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	var current snapshot.Current
	router := NewRouter(m, reg, &current)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/healthz",status="503"} 1`) {
		t.Errorf("Expected healthz request to be counted, got:\n%s", body)
	}
	if !strings.Contains(body, "weekly_current_day") {
		t.Error("Expected weekly_current_day in metrics output")
	}
}
