package log

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or fallback when there is none.
// A request-scoped logger keeps the caller's fields but takes fallback's component.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return fallback
	}
	if fallback != nil {
		return logger.WithComponent(fallback.component)
	}
	return logger
}
