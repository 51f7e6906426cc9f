package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Paintersrp/apphub/internal/metrics"
)

func TestRegistryExposesMetrics(t *testing.T) {
	metrics.EmitBuildInfo()
	metrics.IncSpawned()
	metrics.AddTerminationSignals("SIGTERM", 2)
	metrics.AddReaped(1)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("unexpected status code from metrics handler: %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"apphub_processes_spawned_total 1",
		"apphub_termination_signals_total{signal=\"SIGTERM\"} 2",
		"apphub_processes_reaped_total 1",
		"apphub_build_info",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metric line %q in body:\n%s", want, body)
		}
	}
}

func TestCountersIgnoreNonPositiveAndUnnamed(t *testing.T) {
	metrics.AddTerminationSignals("", 5)
	metrics.AddTerminationSignals("SIGKILL", 0)
	metrics.AddReaped(-1)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "signal=\"\"") || strings.Contains(body, "signal=\"SIGKILL\"") {
		t.Fatalf("unexpected label values in body:\n%s", body)
	}
}
