// Package trace tags each HTTP request with an ID and logs its lifecycle.
package trace

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"gastos/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"
)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *log.Logger

	totalRequests  int64
	totalMicros    int64
	completedCount int64
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests       int64
	AverageResponseTime int64 // in microseconds
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(logger *log.Logger, extractIP func(*http.Request) string) *Middleware {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Middleware{
		extractIP: extractIP,
		logger:    logger.WithComponent(log.ComponentTrace),
	}
}

// Middleware returns HTTP middleware for request tracing. Handlers downstream
// find a request-scoped logger with log.FromContext.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = GenerateRequestID()
		}

		reqLogger := m.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = log.NewContext(ctx, reqLogger)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		fields := log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, clientIP, r.UserAgent())
		reqLogger.InfoContext(ctx, "HTTP request started", fields.ToSlice()...)

		atomic.AddInt64(&m.totalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		atomic.AddInt64(&m.totalMicros, duration.Microseconds())
		atomic.AddInt64(&m.completedCount, 1)

		fields = fields.WithHTTPResponse(rw.statusCode, duration.Milliseconds(), rw.statusCode < 400)
		switch {
		case rw.statusCode >= 500:
			reqLogger.ErrorContext(ctx, "HTTP request completed", fields.ToSlice()...)
		case rw.statusCode >= 400:
			reqLogger.WarnContext(ctx, "HTTP request completed", fields.ToSlice()...)
		default:
			reqLogger.InfoContext(ctx, "HTTP request completed", fields.ToSlice()...)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	metrics := Metrics{TotalRequests: atomic.LoadInt64(&m.totalRequests)}
	if completed := atomic.LoadInt64(&m.completedCount); completed > 0 {
		metrics.AverageResponseTime = atomic.LoadInt64(&m.totalMicros) / completed
	}
	return metrics
}
