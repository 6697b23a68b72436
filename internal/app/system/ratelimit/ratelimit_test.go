package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ezraportal/internal/app/system/ratelimit"
)

func TestAllow_BurstThenRefuse(t *testing.T) {
	l := ratelimit.New(6, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request beyond burst should be refused")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other keys have their own bucket")
	}

	l.Reset("1.2.3.4")
	if !l.Allow("1.2.3.4") {
		t.Error("reset should restore the bucket")
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := ratelimit.New(1, 1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded", "10.0.0.1, 10.0.0.2", "", "192.0.2.1:1234", "10.0.0.1"},
		{"real ip", "", "10.0.0.9", "192.0.2.1:1234", "10.0.0.9"},
		{"remote", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote no port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
