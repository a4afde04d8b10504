package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(NewContextHandler(slog.NewJSONHandler(buf, nil)))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestContextHandler_AddsRequestID(t *testing.T) {
	// given
	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	// when
	logger.InfoContext(ctx, "hello")

	// then
	record := decode(t, &buf)
	assert.Equal(t, "req-42", record["request_id"])
	assert.NotContains(t, record, "trace_id")
}

func TestContextHandler_AddsTraceIDs(t *testing.T) {
	// given
	var buf bytes.Buffer
	logger := newTestLogger(&buf).With("component", "test")
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	// when
	logger.InfoContext(ctx, "hello")

	// then
	record := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", record["span_id"])
	assert.Equal(t, "test", record["component"])
}

func TestContextHandler_PlainCall(t *testing.T) {
	// given
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	// when
	logger.Info("plain")

	// then
	record := decode(t, &buf)
	assert.Equal(t, "plain", record["msg"])
	assert.NotContains(t, record, "request_id")
}
