package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Limit(okHandler)

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/patient/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := hit("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := hit("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the burst is spent, got %d", code)
	}
	if code := hit("10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("other client should not be limited, got %d", code)
	}
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.get("10.0.0.1")
	rl.get("10.0.0.2")

	rl.evict(time.Now().Add(staleClientAfter + time.Second))

	if len(rl.clients) != 0 {
		t.Errorf("expected idle clients evicted, %d left", len(rl.clients))
	}
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware([]string{"http://localhost:3000"})(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		origin      string
		expected    int
		allowOrigin string
	}{
		{"allowed_origin", http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"foreign_origin", http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/doctor", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.allowOrigin {
				t.Errorf("allow origin = %q, want %q", got, tt.allowOrigin)
			}
		})
	}
}

func TestMetrics_Instrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /doctor/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Instrument(mux)

	for _, path := range []string{"/doctor/1", "/doctor/2"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET /doctor/{id}", http.MethodGet, "404"))
	if got != 2 {
		t.Errorf("expected 2 requests under the route pattern, got %v", got)
	}
}

func TestLogger_RequestID(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/doctor", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get(requestIDHeader) != "req-123" {
		t.Errorf("request id not echoed: %q", rec.Header().Get(requestIDHeader))
	}
	out := buf.String()
	if strings.Count(out, `"request_id":"req-123"`) != 2 {
		t.Errorf("expected request id on both log lines, got %s", out)
	}
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("expected status in access log, got %s", out)
	}
}

func TestLogger_GeneratesRequestID(t *testing.T) {
	h := Logger(zerolog.Nop())(http.HandlerFunc(okHandler))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
