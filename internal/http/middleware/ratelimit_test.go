package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleBurstThenRefill(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	th := newIPThrottle(1, 2)
	th.now = func() time.Time { return clock }

	assert.True(t, th.allow("1.2.3.4"))
	assert.True(t, th.allow("1.2.3.4"))
	assert.False(t, th.allow("1.2.3.4"), "burst spent")

	// Another client has its own bucket.
	assert.True(t, th.allow("5.6.7.8"))

	// One second refills one token at 1 req/s.
	clock = clock.Add(time.Second)
	assert.True(t, th.allow("1.2.3.4"))
	assert.False(t, th.allow("1.2.3.4"))
}

func TestThrottleSweepsIdleClients(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	th := newIPThrottle(1, 1)
	th.now = func() time.Time { return clock }

	th.allow("1.2.3.4")
	clock = clock.Add(throttleIdleFor + throttleSweepEvery)
	th.allow("5.6.7.8")

	th.mu.Lock()
	defer th.mu.Unlock()
	assert.NotContains(t, th.clients, "1.2.3.4")
	assert.Contains(t, th.clients, "5.6.7.8")
}

func TestRateLimitMiddlewareRejectsWith429(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("X-Real-Ip", "1.2.3.4")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected.
	other := httptest.NewRequest(http.MethodPost, "/chat", nil)
	other.Header.Set("X-Real-Ip", "5.6.7.8")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
