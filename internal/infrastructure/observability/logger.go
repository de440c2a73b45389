package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the global zerolog logger. Development gets a
// human readable console writer at debug level, everything else JSON at info.
// Events are also copied to every extra writer, such as a LogBridge.
func InitLogger(serviceName, env string, extra ...io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	if len(extra) > 0 {
		out = zerolog.MultiLevelWriter(append([]io.Writer{out}, extra...)...)
	}
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName)
	if env != "development" {
		ctx = ctx.Caller().Str("env", env)
	}
	log.Logger = ctx.Logger()
}

// LoggerFromContext returns the global logger enriched with the active trace and span ids
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return &logger
}
