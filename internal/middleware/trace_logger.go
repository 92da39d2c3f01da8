package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// loggerKey is the context key for the logger
type loggerKey struct{}

// WithLogger stores logger in ctx. Flows use it to carry a logger tagged
// with the flow id down to the transport.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithTraceLogger returns middleware that adds trace IDs to the logger in
// the request context.
func WithTraceLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := withSpan(r.Context(), logger).With(
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), l)))
		})
	}
}

// LoggerFromContext retrieves the logger from context, adding the current
// span's ids. If no logger is stored, fallback is used.
func LoggerFromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return withSpan(ctx, fallback)
}

// LoggerFromRequest is a convenience function to get logger from HTTP request
func LoggerFromRequest(r *http.Request, fallback *zap.Logger) *zap.Logger {
	return LoggerFromContext(r.Context(), fallback)
}

func withSpan(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
