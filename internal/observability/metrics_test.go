package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPMetrics_ObserveRequest(t *testing.T) {
	t.Parallel()

	m := NewHTTPMetrics("futgol-test")
	route := "POST /api/matches/{id}/presence/{$}"
	m.ObserveRequest(http.MethodPost, route, http.StatusOK, 12*time.Millisecond)
	m.ObserveRequest(http.MethodPost, route, http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodPost, route, http.StatusConflict, time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	counts := map[string]float64{}
	var observations uint64
	for _, family := range families {
		switch family.GetName() {
		case "futgol_http_requests_total":
			for _, metric := range family.GetMetric() {
				for _, label := range metric.GetLabel() {
					if label.GetName() == "code" {
						counts[label.GetValue()] = metric.GetCounter().GetValue()
					}
				}
			}
		case "futgol_http_request_duration_seconds":
			for _, metric := range family.GetMetric() {
				observations += metric.GetHistogram().GetSampleCount()
			}
		}
	}

	if counts["200"] != 2 || counts["409"] != 1 {
		t.Fatalf("unexpected request counts: %v", counts)
	}
	if observations != 3 {
		t.Fatalf("expected 3 latency observations, got %d", observations)
	}
}

func TestHTTPMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewHTTPMetrics("futgol-test")
	m.ObserveRequest(http.MethodGet, "GET /api/groups/{$}", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `futgol_http_requests_total{code="200",method="GET",route="GET /api/groups/{$}",service="futgol-test"} 1`) {
		t.Fatalf("counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("go collector missing from exposition")
	}
}
