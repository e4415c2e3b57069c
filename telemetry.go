package lexstat

import (
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogSink names where structured log lines should be written. The zero
// value logs to stderr only.
type LogSink struct {
	// FilePath, if non-empty, adds a rotating file sink backed by
	// lumberjack alongside stderr, mirroring a minimal version of
	// fulmenhq-gofulmen's per-sink core construction.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger wraps zap with a per-invocation correlation id, the way
// fulmenhq-gofulmen's Logger wraps zap with sink/middleware configuration.
// Here the wrapping is intentionally small: this package only needs
// leveled, structured log lines tagged with a correlation id, not a full
// policy/middleware pipeline.
type Logger struct {
	z             *zap.Logger
	correlationID string
}

// NewLogger builds a Logger writing to stderr, and optionally to a
// rotating file sink.
func NewLogger(sink LogSink) *Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), zap.InfoLevel),
	}
	if sink.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   sink.FilePath,
			MaxSize:    orDefault(sink.MaxSizeMB, 100),
			MaxBackups: orDefault(sink.MaxBackups, 3),
			MaxAge:     orDefault(sink.MaxAgeDays, 28),
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), zap.InfoLevel))
	}

	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return &Logger{z: z, correlationID: uuid.NewString()}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// With returns a child logger scoped to a fresh correlation id, used to tag
// a single GetScorer/Cluster invocation's log lines so they can be grepped
// together (design's logging expansion).
func (l *Logger) With() *Logger {
	return &Logger{z: l.z, correlationID: uuid.NewString()}
}

func (l *Logger) fields(extra ...zap.Field) []zap.Field {
	return append([]zap.Field{zap.String("correlation_id", l.correlationID)}, extra...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.z.Info(msg, l.fields(fields...)...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.z.Warn(msg, l.fields(fields...)...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.z.Error(msg, l.fields(fields...)...)
}

func (l *Logger) Sync() error {
	return l.z.Sync()
}
