package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *time.Time) {
	t.Helper()
	rl := NewLimiter(Config{RequestsPerMinute: perMinute})
	t.Cleanup(rl.Stop)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestAllowWindow(t *testing.T) {
	rl, now := newTestLimiter(t, 2)

	require.True(t, rl.Allow("a"))
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"), "keys are independent")

	*now = now.Add(time.Minute)
	require.True(t, rl.Allow("a"), "window resets after a minute")

	m := rl.GetMetrics()
	require.Equal(t, int64(1), m.TotalHits)
	require.Equal(t, int64(2), m.ClientCount)
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, now := newTestLimiter(t, 5)
	rl.Allow("a")
	*now = now.Add(11 * time.Minute)
	rl.Allow("b")

	rl.cleanupStaleEntries()
	require.Equal(t, 1, rl.ActiveClients())
}

func TestMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	key := func(r *http.Request) string { return r.FormValue("From") }
	h := rl.Middleware(key, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(from string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/?From="+from, nil))
		return rr
	}

	require.Equal(t, http.StatusNoContent, do("alice").Code)
	rr := do("alice")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "60", rr.Header().Get("Retry-After"))
	require.Equal(t, http.StatusNoContent, do("bob").Code)

	custom := rl.Middleware(key, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})(http.NotFoundHandler())
	rr = httptest.NewRecorder()
	custom.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/?From=bob", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(Config{})
	rl.Stop()
	rl.Stop()
	require.Equal(t, 60, rl.requestsPerMinute)
}
