package observability

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/subway-lines/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
)

const (
	logMirrorScope    = "github.com/riskibarqy/subway-lines/internal/platform/logging"
	maxMirroredDepth  = 3
	requestLogMessage = "http request"
)

var healthCheckPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// newLogMirror forwards log entries to the global OpenTelemetry log provider.
func newLogMirror(serviceVersion string) logging.MirrorFunc {
	logger := otelglobal.Logger(logMirrorScope, otellog.WithInstrumentationVersion(serviceVersion))

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isHealthCheckRequestLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := logSeverity(level)
		if !logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		var record otellog.Record
		now := time.Now()
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		record.AddAttributes(logAttributes(args)...)

		logger.Emit(ctx, record)
	}
}

// isHealthCheckRequestLog reports request logs for liveness and readiness polls.
func isHealthCheckRequestLog(msg string, args []any) bool {
	if msg != requestLogMessage {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, _ := args[i].(string); key == "path" {
			path, _ := args[i+1].(string)
			_, ok := healthCheckPaths[path]
			return ok
		}
	}
	return false
}

// logAttributes pairs up key/value args. Non-string keys become arg_<n> and a
// trailing key without a value is recorded empty.
func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if strings.TrimSpace(key) == "" {
			key = "arg_" + strconv.Itoa(i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1], 0)})
	}
	return attrs
}

func logSeverity(level logging.Level) otellog.Severity {
	switch {
	case level < logging.LevelInfo:
		return otellog.SeverityDebug
	case level == logging.LevelInfo:
		return otellog.SeverityInfo
	case level == logging.LevelWarn:
		return otellog.SeverityWarn
	case level == logging.LevelError:
		return otellog.SeverityError
	default:
		return otellog.SeverityFatal
	}
}

func logValue(value any, depth int) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case []byte:
		return otellog.BytesValue(slices.Clone(v))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}
	if depth >= maxMirroredDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= 1<<63-1 {
			return otellog.Int64Value(int64(u))
		}
		return otellog.StringValue(fmt.Sprint(value))
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.Pointer:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return logValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		items := make([]otellog.Value, rv.Len())
		for i := range items {
			items[i] = logValue(rv.Index(i).Interface(), depth+1)
		}
		return otellog.SliceValue(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		kvs := make([]otellog.KeyValue, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			kvs = append(kvs, otellog.KeyValue{Key: iter.Key().String(), Value: logValue(iter.Value().Interface(), depth+1)})
		}
		slices.SortFunc(kvs, func(a, b otellog.KeyValue) int { return strings.Compare(a.Key, b.Key) })
		return otellog.MapValue(kvs...)
	}

	return otellog.StringValue(fmt.Sprint(value))
}
