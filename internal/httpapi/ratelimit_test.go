package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newLimitedHandler(cfg RateLimitConfig) http.Handler {
	limiter := NewRateLimiter(cfg)
	return limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(h http.Handler, method, path, ip string) int {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	h := newLimitedHandler(RateLimitConfig{IPPerMinute: 60, IPBurst: 2})

	for i := 0; i < 2; i++ {
		if code := doRequest(h, http.MethodGet, "/api/queue/public", "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := doRequest(h, http.MethodGet, "/api/queue/public", "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
}

func TestRateLimitIsPerIP(t *testing.T) {
	h := newLimitedHandler(RateLimitConfig{IPPerMinute: 60, IPBurst: 1})

	if code := doRequest(h, http.MethodGet, "/api/queue/public", "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first ip: expected 200, got %d", code)
	}
	if code := doRequest(h, http.MethodGet, "/api/queue/public", "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("second ip must have its own bucket, got %d", code)
	}
}

func TestJoinBucketIsSeparate(t *testing.T) {
	h := newLimitedHandler(RateLimitConfig{IPPerMinute: 60, IPBurst: 10, JoinPerMinute: 1})

	if code := doRequest(h, http.MethodPost, "/api/queue/join", "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first join: expected 200, got %d", code)
	}
	if code := doRequest(h, http.MethodPost, "/api/queue/join", "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("second join must hit the join budget, got %d", code)
	}
	// The read bucket is untouched by join traffic.
	if code := doRequest(h, http.MethodGet, "/api/queue/public", "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("read after join limit: expected 200, got %d", code)
	}
}
