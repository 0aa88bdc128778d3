// Package logtrace is the structured logger used across the toolkit.
//
// Messages carry a Fields map and the correlation ID stored in the context.
// Output is JSON on stderr unless Setup is given another writer.
package logtrace

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a type alias for structured log fields
type Fields map[string]interface{}

const (
	FieldCorrelationID = "correlation_id"
	FieldModule        = "module"
	FieldError         = "error"
	FieldStep          = "step"
	FieldIterations    = "iterations"
	FieldAlgorithm     = "hash_algorithm"
	FieldHashHex       = "hash_hex"
	FieldCID           = "cid"
	FieldCommand       = "command"
	FieldFunctionID    = "function_id"
)

type ctxKey int

const correlationKey ctxKey = iota

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Setup installs a JSON logger at level ("debug", "info", "warn", "error")
// writing to w. A nil w means stderr.
func Setup(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		lvl = zapcore.InfoLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), lvl)

	mu.Lock()
	logger = zap.New(core)
	mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

// WithCorrelationID returns ctx carrying id. An empty id generates a new UUID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey, id)
}

// CorrelationID returns the ID stored by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey).(string)
	return id
}

// WithFields returns a copy of base with extra fields merged in.
func WithFields(base Fields, extra Fields) Fields {
	fields := Fields{}
	for key, value := range base {
		fields[key] = value
	}
	for key, value := range extra {
		fields[key] = value
	}
	return fields
}

func Debug(ctx context.Context, msg string, fields Fields) { write(ctx, zapcore.DebugLevel, msg, fields) }
func Info(ctx context.Context, msg string, fields Fields)  { write(ctx, zapcore.InfoLevel, msg, fields) }
func Warn(ctx context.Context, msg string, fields Fields)  { write(ctx, zapcore.WarnLevel, msg, fields) }
func Error(ctx context.Context, msg string, fields Fields) { write(ctx, zapcore.ErrorLevel, msg, fields) }

func write(ctx context.Context, level zapcore.Level, msg string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ce := l.Check(level, msg)
	if ce == nil {
		return
	}
	zf := make([]zap.Field, 0, len(fields)+1)
	if id := CorrelationID(ctx); id != "" {
		zf = append(zf, zap.String(FieldCorrelationID, id))
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			zf = append(zf, zap.String(k, err.Error()))
			continue
		}
		zf = append(zf, zap.Any(k, v))
	}
	ce.Write(zf...)
}
