package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gastos/internal/log"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{name: "direct", remote: "203.0.113.7:5555", want: "203.0.113.7"},
		{name: "untrusted peer ignores xff", remote: "203.0.113.7:5555", xff: "1.2.3.4", want: "203.0.113.7"},
		{name: "trusted proxy xff", remote: "10.0.0.2:80", xff: "198.51.100.1, 10.0.0.2", want: "198.51.100.1"},
		{name: "trusted proxy x-real-ip", remote: "127.0.0.1:80", xri: "198.51.100.9", want: "198.51.100.9"},
		{name: "trusted proxy bad xff", remote: "192.168.1.1:80", xff: "garbage", want: "192.168.1.1"},
		{name: "unparseable remote", remote: "pipe", want: "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/webhook", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			require.Equal(t, tt.want, d.ExtractClientIP(r))
		})
	}
	require.Equal(t, int64(1), d.GetMetrics().InvalidIPAttempts)
}

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()
	require.False(t, d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodPost, "/webhook", nil)))
	require.True(t, d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/.env", nil)))
	require.True(t, d.DetectSuspiciousRequest(httptest.NewRequest("TRACE", "/", nil)))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "sqlmap/1.7")
	require.True(t, d.DetectSuspiciousRequest(r))
	require.Equal(t, int64(3), d.GetMetrics().SuspiciousRequests)

	require.Error(t, d.AddTrustedProxy("nope"))
	require.NoError(t, d.AddTrustedProxy("203.0.113.0/24"))
}

func TestDetectorMiddleware(t *testing.T) {
	h := NewDetector().Middleware(log.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("TRACE", "/", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/.git/config", nil))
	require.Equal(t, http.StatusNoContent, rr.Code, "logged but served")
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.NotFoundHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	require.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	require.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
}
