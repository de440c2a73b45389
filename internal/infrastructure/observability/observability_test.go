package observability

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
)

func TestInitMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotPanics(t, func() {
		ctx := context.Background()
		RecordRequestMetric(ctx, metrics, "GET", "/api/categories", 200, 3*time.Millisecond)
		RecordAuthAttempt(ctx, metrics, "login", "success")
		RecordModeration(ctx, metrics, "approved")
	})
}

func TestRecorders_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		ctx := context.Background()
		RecordRequestMetric(ctx, nil, "GET", "/", 200, time.Millisecond)
		RecordAuthAttempt(ctx, nil, "login", "failure")
		RecordModeration(ctx, nil, "rejected")
	})
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	InitLogger("citylinker-test", "test")
	logger := LoggerFromContext(context.Background())
	require.NotNil(t, logger)
}

func TestLogBridge_AcceptsEvents(t *testing.T) {
	bridge := NewLogBridge("citylinker-test")

	line := []byte(`{"level":"info","message":"HTTP request","status":200,"route":"GET /api/categories"}`)
	n, err := bridge.WriteLevel(zerolog.InfoLevel, line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	n, err = bridge.Write([]byte("plain text"))
	require.NoError(t, err)
	assert.Equal(t, len("plain text"), n)
}

func TestAttributeOf(t *testing.T) {
	assert.Equal(t, otellog.Int64("status", 200), attributeOf("status", float64(200)))
	assert.Equal(t, otellog.Float64("ratio", 0.5), attributeOf("ratio", 0.5))
	assert.Equal(t, otellog.String("route", "/x"), attributeOf("route", "/x"))
	assert.Equal(t, otellog.Bool("ok", true), attributeOf("ok", true))
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, otellog.SeverityError, severity(zerolog.ErrorLevel))
	assert.Equal(t, otellog.SeverityUndefined, severity(zerolog.NoLevel))
}
