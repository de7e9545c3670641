package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	t.Parallel()

	down := &mockHealthChecker{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}

	tests := []struct {
		name       string
		db         HealthChecker
		cache      HealthChecker
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "all healthy",
			db:         &mockHealthChecker{},
			cache:      &mockHealthChecker{},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name:       "database down",
			db:         down,
			cache:      &mockHealthChecker{},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
			wantChecks: map[string]string{"postgres": "unavailable", "redis": "ok"},
		},
		{
			name:       "redis down",
			db:         &mockHealthChecker{},
			cache:      down,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
			wantChecks: map[string]string{"postgres": "ok", "redis": "unavailable"},
		},
		{
			name:       "nothing configured",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{"postgres": "not configured", "redis": "not configured"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(tt.db, tt.cache, nil)

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if strings.Contains(rec.Body.String(), "10.0.0.5") {
				t.Error("response leaks dependency error details")
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.wantBody {
				t.Errorf("expected status %q, got %q", tt.wantBody, response.Status)
			}
			for dep, want := range tt.wantChecks {
				if got := response.Checks[dep]; got != want {
					t.Errorf("check %s = %q, want %q", dep, got, want)
				}
			}
		})
	}
}
