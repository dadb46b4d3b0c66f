package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"trashify/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestCORS_AnyOrigin(t *testing.T) {
	handler := CORS("*", okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "ok", rr.Body.String())
}

func TestCORS_RestrictedOrigin(t *testing.T) {
	handler := CORS("https://trashify.example", okHandler())

	tests := []struct {
		origin   string
		expected string
	}{
		{"https://trashify.example", "https://trashify.example"},
		{"https://evil.example", ""},
		{"", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, tt.expected, rr.Header().Get("Access-Control-Allow-Origin"), "origin %q", tt.origin)
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS("*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/api/detect", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.False(t, called)
}

func TestInstrument_RecordsStatus(t *testing.T) {
	before := testutil.CollectAndCount(metrics.HTTPRequestDurationSeconds)

	teapot := Instrument("/test/teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	teapot.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	silent := Instrument("/test/silent", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	silent.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test/silent", nil))

	assert.Equal(t, before+2, testutil.CollectAndCount(metrics.HTTPRequestDurationSeconds))
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	rec.Write([]byte("body"))
	assert.Equal(t, http.StatusOK, rec.status)

	_, _, err := rec.Hijack()
	assert.Error(t, err)
}
