package logger

import (
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel maps LOG_LEVEL values to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Fields is the fixed set of keys every shopmenu log line may carry. Zero
// values are left out.
type Fields struct {
	SessionID  string
	CustomerID int64
	OrderID    int64
	Step       string
	Status     string
	DurationMS int64
	Message    string
	Error      string
}

func (f Fields) zap() []zap.Field {
	out := make([]zap.Field, 0, 7)
	if f.SessionID != "" {
		out = append(out, zap.String("session_id", f.SessionID))
	}
	if f.CustomerID != 0 {
		out = append(out, zap.Int64("customer_id", f.CustomerID))
	}
	if f.OrderID != 0 {
		out = append(out, zap.Int64("order_id", f.OrderID))
	}
	if f.Step != "" {
		out = append(out, zap.String("step", f.Step))
	}
	if f.Status != "" {
		out = append(out, zap.String("status", f.Status))
	}
	if f.DurationMS != 0 {
		out = append(out, zap.Int64("duration_ms", f.DurationMS))
	}
	if f.Error != "" {
		out = append(out, zap.String("error", f.Error))
	}
	return out
}

// Logger writes one JSON object per line through zap.
type Logger struct {
	z *zap.Logger
}

func New(service string, w io.Writer, min Level) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), min.zap())
	return &Logger{z: zap.New(core).With(zap.String("service", service))}
}

// Nop discards everything; used by tests and when no sink is configured.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Debug(f Fields) {
	if l != nil {
		l.z.Debug(f.Message, f.zap()...)
	}
}

func (l *Logger) Info(f Fields) {
	if l != nil {
		l.z.Info(f.Message, f.zap()...)
	}
}

func (l *Logger) Error(f Fields) {
	if l != nil {
		l.z.Error(f.Message, f.zap()...)
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.z.Sync()
}

// Since returns elapsed milliseconds for Fields.DurationMS.
func Since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
