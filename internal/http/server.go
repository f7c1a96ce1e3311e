// Package http exposes the chat interpreter as a messaging webhook.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"gastos/internal/ledger"
	"gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
)

// Replier turns an inbound chat message into the reply text.
type Replier interface {
	Handle(ctx context.Context, message string) string
}

// Server serves the webhook and health endpoints.
type Server struct {
	http.Server

	replier  Replier
	ready    ledger.Pinger
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithReadinessCheck makes /readyz ping p.
func WithReadinessCheck(p ledger.Pinger) Option {
	return func(s *Server) { s.ready = p }
}

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l.WithComponent(log.ComponentHTTP) }
}

// WithRateLimit caps webhook messages per sender per minute.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: perMinute})
	}
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, replier Replier, opts ...Option) *Server {
	s := &Server{
		replier:  replier,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		detector: security.NewDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)

	r := mux.NewRouter()
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger))

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	webhook := r.Methods(http.MethodPost).Subrouter()
	webhook.Use(s.limiter.Middleware(s.senderKey, s.rateLimited))
	webhook.HandleFunc("/", s.handleWebhook)
	webhook.HandleFunc("/webhook", s.handleWebhook)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// senderKey buckets rate limiting by the messaging sender, falling back to
// the client address.
func (s *Server) senderKey(r *http.Request) string {
	if from := r.PostFormValue("From"); from != "" {
		return "from:" + from
	}
	return "ip:" + s.detector.ExtractClientIP(r)
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context(), s.logger).WithComponent(log.ComponentRateLimit)
	logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldSender, r.PostFormValue("From"),
		log.FieldClientIP, s.detector.ExtractClientIP(r))
	w.Header().Set("Retry-After", strconv.Itoa(60))
	writeTwiML(w, r, http.StatusTooManyRequests, msgRateLimited, s.logger)
}

// Shutdown gracefully shuts down the server and the limiter cleanup goroutine,
// then logs the traffic counters gathered since start.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
		s.logStats(ctx)
	})
	return err
}

func (s *Server) logStats(ctx context.Context) {
	traffic := s.tracer.GetMetrics()
	limits := s.limiter.GetMetrics()
	suspicious := s.detector.GetMetrics()
	s.logger.InfoContext(ctx, "Webhook server stopped",
		"total_requests", traffic.TotalRequests,
		"avg_response_us", traffic.AverageResponseTime,
		"rate_limit_hits", limits.TotalHits,
		"tracked_senders", limits.ClientCount,
		"suspicious_requests", suspicious.SuspiciousRequests,
		"invalid_ip_attempts", suspicious.InvalidIPAttempts)
}
