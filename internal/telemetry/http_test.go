package telemetry_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/TimurManjosov/rulesetweekly/internal/telemetry"
	"github.com/TimurManjosov/rulesetweekly/internal/testutil"
)

func TestRouter_HealthzAfterPublish(t *testing.T) {
	svc, _ := testutil.NewTestService(t, time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC))
	reg := prometheus.NewRegistry()
	router := telemetry.NewRouter(telemetry.NewMetrics(reg), reg, svc.Current())

	req := &testutil.HTTPRequest{Path: "/healthz"}
	if rr := req.Do(t, router); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before publishing, got %d", rr.Code)
	}

	snap, err := svc.PublishWeekly(context.Background())
	if err != nil {
		t.Fatalf("PublishWeekly failed: %v", err)
	}

	rr := req.Do(t, router)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("ETag") != snap.ETag {
		t.Errorf("Expected ETag %s, got %s", snap.ETag, rr.Header().Get("ETag"))
	}
	if !strings.Contains(rr.Body.String(), `"displayName":"June 9, 2024"`) {
		t.Errorf("Expected current week in body, got %s", rr.Body.String())
	}
}
