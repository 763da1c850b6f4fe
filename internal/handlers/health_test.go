package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name            string
		pingErr         error
		expectedStatus  int
		expectedHealth  string
		expectedStorage string
	}{
		{
			name:            "healthy",
			pingErr:         nil,
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
		},
		{
			name:            "unhealthy storage",
			pingErr:         errors.New("connection failed"),
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(stubPinger{err: tt.pingErr}, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedHealth {
				t.Errorf("Expected health %s, got %s", tt.expectedHealth, resp.Status)
			}
			if resp.Components["storage"] != tt.expectedStorage {
				t.Errorf("Expected storage %s, got %v", tt.expectedStorage, resp.Components["storage"])
			}
			if resp.Service != "shelter-engine" {
				t.Errorf("Unexpected service name %s", resp.Service)
			}
		})
	}
}
