package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMonitorHealth(t *testing.T) {
	m := NewMonitor()
	if !m.IsHealthy() {
		t.Error("monitor with no runs should be healthy")
	}
	if got := m.GetStatusSummary(); got != "No runs yet" {
		t.Errorf("GetStatusSummary() = %q", got)
	}

	m.RecordSuccess("refreshed 3 channels", time.Second)
	if !m.IsHealthy() {
		t.Error("healthy after success")
	}
	if got := m.GetStatusSummary(); !strings.Contains(got, "refreshed 3 channels") {
		t.Errorf("summary %q lacks last run", got)
	}

	m.RecordPartialFailure(errors.New("1 channel failed"), time.Second)
	if !m.IsHealthy() {
		t.Error("partial failure must not change health")
	}

	m.RecordCriticalFailure(errors.New("storage locked"), time.Second)
	if m.IsHealthy() {
		t.Error("unhealthy after critical failure")
	}
	if got := m.GetStatusSummary(); !strings.Contains(got, "storage locked") || !strings.Contains(got, "2 runs, 1 failed") {
		t.Errorf("GetStatusSummary() = %q", got)
	}
}

func TestHealthHandler(t *testing.T) {
	m := NewMonitor()
	h := NewHealthServer(m, 0)

	tests := []struct {
		name     string
		setup    func()
		path     string
		wantCode int
		wantBody string
	}{
		{"Healthy before runs", func() {}, "/health", http.StatusOK, "OK - No runs yet"},
		{"Unhealthy after failure", func() { m.RecordCriticalFailure(errors.New("boom"), 0) }, "/health", http.StatusServiceUnavailable, "Service unhealthy"},
		{"Status always 200", func() {}, "/status", http.StatusOK, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			rec := httptest.NewRecorder()
			h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
