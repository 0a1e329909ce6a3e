package middleware

import (
	"net/http"
	"sync"
	"time"
)

// How often stale client buckets are swept, and how long a client may be
// silent before its bucket is dropped.
const (
	throttleSweepEvery = 5 * time.Minute
	throttleIdleFor    = 10 * time.Minute
)

// ipThrottle is a token-bucket throttle keyed by client IP. The chat
// endpoints sit behind it so a runaway widget cannot monopolize turn
// processing for everyone else.
type ipThrottle struct {
	mu        sync.Mutex
	clients   map[string]*tokenBucket
	perSecond float64
	burst     float64
	lastSweep time.Time
	now       func() time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

func newIPThrottle(perSecond float64, burst int) *ipThrottle {
	return &ipThrottle{
		clients:   make(map[string]*tokenBucket),
		perSecond: perSecond,
		burst:     float64(burst),
		now:       time.Now,
	}
}

// allow refills the client's bucket for the elapsed time and spends one
// token. Stale buckets are swept inline on the same lock, so the throttle
// needs no background goroutine.
func (t *ipThrottle) allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastSweep) >= throttleSweepEvery {
		t.sweepLocked(now)
	}

	b, ok := t.clients[ip]
	if !ok {
		b = &tokenBucket{tokens: t.burst, seen: now}
		t.clients[ip] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * t.perSecond
	if b.tokens > t.burst {
		b.tokens = t.burst
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (t *ipThrottle) sweepLocked(now time.Time) {
	cutoff := now.Add(-throttleIdleFor)
	for ip, b := range t.clients {
		if b.seen.Before(cutoff) {
			delete(t.clients, ip)
		}
	}
	t.lastSweep = now
}

// RateLimit returns middleware allowing perSecond requests per client IP
// with the given burst, rejecting the rest with 429 Too Many Requests.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	throttle := newIPThrottle(perSecond, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// chi's RealIP middleware runs first and records the client here.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !throttle.allow(ip) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
