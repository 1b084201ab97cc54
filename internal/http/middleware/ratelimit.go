package middleware

import (
	"net/http"
	"sync"
	"time"
)

// staleAfter is how long an idle client's bucket survives before eviction.
const staleAfter = 10 * time.Minute

// CaptureLimiter throttles the public capture endpoints per client IP with a
// token bucket. The pipeline's cooldown only covers completed submissions;
// this also keeps draft saves and analytics pings from being hammered.
type CaptureLimiter struct {
	mu      sync.Mutex
	clients map[string]*tokenBucket
	swept   time.Time

	perSecond float64
	burst     float64

	clock func() time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewCaptureLimiter creates a limiter refilling perSecond tokens up to burst
// for each client.
func NewCaptureLimiter(perSecond float64, burst int) *CaptureLimiter {
	return &CaptureLimiter{
		clients:   make(map[string]*tokenBucket),
		perSecond: perSecond,
		burst:     float64(burst),
		clock:     time.Now,
	}
}

// WithClock injects a time source. Test hook.
func (l *CaptureLimiter) WithClock(clock func() time.Time) *CaptureLimiter {
	if clock != nil {
		l.clock = clock
	}
	return l
}

// Allow spends one token for ip, reporting whether the request may proceed.
func (l *CaptureLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	b, ok := l.clients[ip]
	if !ok {
		b = &tokenBucket{tokens: l.burst, seen: now}
		l.clients[ip] = b
	} else {
		b.tokens += now.Sub(b.seen).Seconds() * l.perSecond
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.seen = now
	}
	l.sweep(now)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep evicts buckets idle past staleAfter, at most once a minute, so the
// map stays bounded by the set of recently active clients. Callers hold mu.
func (l *CaptureLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < time.Minute {
		return
	}
	l.swept = now
	for ip, b := range l.clients {
		if now.Sub(b.seen) > staleAfter {
			delete(l.clients, ip)
		}
	}
}

// RateLimit wraps next with a per-IP CaptureLimiter, answering over-limit
// requests with 429 in the same JSON error shape the capture handlers use.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	limiter := NewCaptureLimiter(perSecond, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Muitas requisições. Aguarde um instante e tente novamente."}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the address resolved by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
