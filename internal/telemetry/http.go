package telemetry

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
)

// Health is the body of /healthz.
type Health struct {
	Status  string            `json:"status"`
	Current *snapshot.Summary `json:"current,omitempty"`
}

// NewRouter serves /healthz and /metrics.
//
// /healthz answers 503 until current holds a published week, so an orchestrator does not
// route to a publisher that has not completed its first publication.
func NewRouter(m *Metrics, gatherer prometheus.Gatherer, current *snapshot.Current) http.Handler {
	r := chi.NewRouter()
	r.Use(m.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		snap := current.Load()
		if snap == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(Health{Status: "starting"})
			return
		}

		sum := snap.Summary()
		w.Header().Set("ETag", sum.ETag)
		_ = json.NewEncoder(w).Encode(Health{Status: "ok", Current: &sum})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}
