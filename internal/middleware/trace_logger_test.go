package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFromContextPrefersStoredLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	stored := zap.New(core).With(zap.String("flow_id", "f1"))

	ctx := WithLogger(context.Background(), stored)
	LoggerFromContext(ctx, zap.NewNop()).Info("hello")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "f1", entries[0].ContextMap()["flow_id"])
}

func TestLoggerFromContextAddsSpanIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	core, logs := observer.New(zapcore.InfoLevel)
	LoggerFromContext(ctx, zap.New(core)).Info("traced")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestWithTraceLoggerInjectsRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := WithTraceLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LoggerFromRequest(r, zap.NewNop()).Info("handled")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/prescreen", nil))

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/prescreen", fields["path"])
}
