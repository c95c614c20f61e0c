package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "static services route", path: "/tables/services", want: "/tables/services"},
		{name: "static export route", path: "/admin/bookings/export", want: "/admin/bookings/export"},
		{name: "booking by id", path: "/tables/bookings/4f2a", want: "/tables/bookings/{id}"},
		{name: "booking status", path: "/tables/bookings/4f2a/status", want: "/tables/bookings/{id}/status"},
		{name: "application review", path: "/tables/applications/9c1d/review", want: "/tables/applications/{id}/review"},
		{name: "provider by id", path: "/tables/providers/p1", want: "/tables/providers/{id}"},
		{name: "booking websocket", path: "/ws/bookings/4f2a", want: "/ws/bookings/{id}"},
		{name: "unknown path unchanged", path: "/something/else", want: "/something/else"},
		{name: "root", path: "/", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestHTTPMetricsRecordsRequest(t *testing.T) {
	metrics := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":[]}`))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tables/bookings/4f2a", nil))

	expected := `
		# HELP http_requests_total Total number of HTTP requests
		# TYPE http_requests_total counter
		http_requests_total{method="GET",path="/tables/bookings/{id}",status="200"} 1
	`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), MetricHTTPRequestsTotal); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestHTTPMetricsSkipsHealthEndpoints(t *testing.T) {
	metrics := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))

	if count := testutil.CollectAndCount(metrics.httpRequestsTotal); count != 0 {
		t.Errorf("health endpoints should not be recorded, got %d series", count)
	}
}
