package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

// LogBridge forwards zerolog JSON lines to the global OpenTelemetry logger
// provider, so application logs reach the collector next to the traces.
type LogBridge struct {
	logger otellog.Logger
}

// NewLogBridge creates a bridge emitting under the given instrumentation scope
func NewLogBridge(scope string) *LogBridge {
	return &LogBridge{logger: global.GetLoggerProvider().Logger(scope)}
}

// Write implements io.Writer for events written without a level
func (b *LogBridge) Write(p []byte) (int, error) {
	return b.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter
func (b *LogBridge) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(p, &fields); err != nil {
		// not a JSON event, forward it verbatim
		fields = map[string]interface{}{zerolog.MessageFieldName: string(p)}
	}

	var record otellog.Record
	record.SetTimestamp(time.Now())
	record.SetSeverity(severity(level))
	record.SetSeverityText(level.String())

	if msg, ok := fields[zerolog.MessageFieldName].(string); ok {
		record.SetBody(otellog.StringValue(msg))
	}
	for key, value := range fields {
		switch key {
		case zerolog.MessageFieldName, zerolog.LevelFieldName, zerolog.TimestampFieldName:
			continue
		}
		record.AddAttributes(attributeOf(key, value))
	}

	b.logger.Emit(context.Background(), record)
	return len(p), nil
}

func attributeOf(key string, value interface{}) otellog.KeyValue {
	switch v := value.(type) {
	case string:
		return otellog.String(key, v)
	case bool:
		return otellog.Bool(key, v)
	case float64:
		if v == float64(int64(v)) {
			return otellog.Int64(key, int64(v))
		}
		return otellog.Float64(key, v)
	default:
		return otellog.String(key, fmt.Sprint(v))
	}
}

func severity(level zerolog.Level) otellog.Severity {
	switch level {
	case zerolog.TraceLevel:
		return otellog.SeverityTrace
	case zerolog.DebugLevel:
		return otellog.SeverityDebug
	case zerolog.InfoLevel:
		return otellog.SeverityInfo
	case zerolog.WarnLevel:
		return otellog.SeverityWarn
	case zerolog.ErrorLevel:
		return otellog.SeverityError
	case zerolog.FatalLevel:
		return otellog.SeverityFatal
	case zerolog.PanicLevel:
		return otellog.SeverityFatal4
	default:
		return otellog.SeverityUndefined
	}
}
