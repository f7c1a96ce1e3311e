package http

import (
	"fmt"
	"net/http"
	"strings"

	"gastos/internal/log"
)

const (
	msgEmpty       = "I didn't receive any message to process."
	msgCritical    = "A serious error occurred while processing your message."
	msgRateLimited = "Too many messages. Please wait a minute and try again."
)

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx, s.logger)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Malformed webhook form", log.FieldError, err)
	}
	message := strings.TrimSpace(r.PostFormValue("Body"))
	if message == "" {
		logger.InfoContext(ctx, "Empty message received")
		writeTwiML(w, r, http.StatusOK, msgEmpty, s.logger)
		return
	}

	logger.InfoContext(ctx, "Message received", log.FieldSender, r.PostFormValue("From"))
	reply := s.reply(r, message)
	writeTwiML(w, r, http.StatusOK, reply, s.logger)
}

// reply contains any panic escaping the replier so the sender always gets an answer.
func (s *Server) reply(r *http.Request, message string) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			ctx := r.Context()
			fields := log.NewFields().WithError(fmt.Errorf("panic: %v", rec), log.ErrorTypeInternal)
			log.FromContext(ctx, s.logger).ErrorContext(ctx, "Unhandled failure processing message", fields.ToSlice()...)
			reply = msgCritical
		}
	}()
	return s.replier.Handle(r.Context(), message)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.ready != nil {
		if err := s.ready.Ping(r.Context()); err != nil {
			log.FromContext(r.Context(), s.logger).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
