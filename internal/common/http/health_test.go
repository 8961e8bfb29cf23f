package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlibekovAA/storefront/internal/common/logger"
)

func TestHealthHandler(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "CRITICAL")

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantCode   int
		wantStatus string
	}{
		{"no checks", nil, http.StatusOK, "ok"},
		{"all healthy", map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		}, http.StatusOK, "ok"},
		{"one failing", map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler(log, tc.checks)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tc.wantStatus {
				t.Errorf("expected status %s, got %s", tc.wantStatus, body["status"])
			}
		})
	}
}
