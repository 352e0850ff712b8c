package httpapi

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type RateLimitConfig struct {
	IPPerMinute int
	IPBurst     int

	// JoinPerMinute caps the join endpoints separately; joins create
	// remote queue rows and get a tighter budget than reads. Zero means
	// a quarter of IPPerMinute.
	JoinPerMinute int
}

type RateLimiter struct {
	reads *tokenLimiter
	joins *tokenLimiter
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	perMinute := cfg.IPPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := cfg.IPBurst
	if burst <= 0 {
		burst = 20
	}
	joinPerMinute := cfg.JoinPerMinute
	if joinPerMinute <= 0 {
		joinPerMinute = (perMinute + 3) / 4
	}
	return &RateLimiter{
		reads: newTokenLimiter(perMinute, burst),
		joins: newTokenLimiter(joinPerMinute, joinPerMinute),
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if ip != "" {
			limiter := l.reads
			if isJoinEndpoint(r) {
				limiter = l.joins
			}
			if !limiter.allow(ip) {
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isJoinEndpoint(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return r.URL.Path == "/api/queue/join" || r.URL.Path == "/api/queue/join-group"
}

type tokenLimiter struct {
	mu        sync.Mutex
	rate      float64
	burst     float64
	buckets   map[string]*bucket
	lastPrune time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

const pruneInterval = 10 * time.Minute

func newTokenLimiter(perMinute, burst int) *tokenLimiter {
	return &tokenLimiter{
		rate:      float64(perMinute) / 60.0,
		burst:     float64(burst),
		buckets:   make(map[string]*bucket),
		lastPrune: time.Now(),
	}
}

func (l *tokenLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now)

	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &bucket{tokens: l.burst - 1, last: now}
		return true
	}
	b.tokens += now.Sub(b.last).Seconds() * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.last = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// prune drops buckets idle long enough to have refilled completely.
func (l *tokenLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < pruneInterval {
		return
	}
	l.lastPrune = now
	for key, b := range l.buckets {
		if now.Sub(b.last) > pruneInterval {
			delete(l.buckets, key)
		}
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
