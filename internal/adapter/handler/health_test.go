package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	h := NewHealthHandler()

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"GET returns 200", http.MethodGet, http.StatusOK},
		{"POST returns 405", http.MethodPost, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, "/health", nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHealthHandler_ResponseFormat(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "timestamp")
	assert.Contains(t, resp, "uptime")
}

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(ctx context.Context) error {
	return m.err
}

func serveReady(t *testing.T, h *ReadyHandler) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestReadyHandler_BackendReady(t *testing.T) {
	h := NewReadyHandler()
	h.AddChecker("backend", &mockChecker{})

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["ready"])
	backend := resp["checks"].(map[string]any)["backend"].(map[string]any)
	assert.Equal(t, true, backend["ready"])
}

func TestReadyHandler_BackendDown(t *testing.T) {
	h := NewReadyHandler()
	h.AddChecker("backend", &mockChecker{err: errors.New("connection refused")})
	h.AddChecker("slack", &mockChecker{})

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, false, resp["ready"])

	checks := resp["checks"].(map[string]any)
	backend := checks["backend"].(map[string]any)
	assert.Equal(t, false, backend["ready"])
	assert.Equal(t, "connection refused", backend["error"])
	assert.Equal(t, true, checks["slack"].(map[string]any)["ready"])
}

func TestReadyHandler_NoCheckers(t *testing.T) {
	code, resp := serveReady(t, NewReadyHandler())

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["ready"])
}

func TestReadyHandler_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	NewReadyHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ready", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "timereport_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	h := NewMetricsHandler(registry)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "timereport_test_total 1")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
