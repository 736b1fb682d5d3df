package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap.Logger to the Logger interface.
type ZapLogger struct {
	l *zap.Logger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l}
}

// NewZap builds a zap logger writing to stderr. level is one of debug,
// info, warn, error; format is "json" or "console".
func NewZap(level, format string) *zap.Logger {
	zl := zap.InfoLevel
	switch level {
	case "debug":
		zl = zap.DebugLevel
	case "warn":
		zl = zap.WarnLevel
	case "error":
		zl = zap.ErrorLevel
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     func(t time.Time, pae zapcore.PrimitiveArrayEncoder) { pae.AppendString(t.UTC().Format(time.RFC3339Nano)) },
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), zap.NewAtomicLevelAt(zl))
	return zap.New(core)
}

// Debug implements Logger.
func (z *ZapLogger) Debug(msg string, fields ...Field) {
	z.l.Debug(msg, toZap(fields)...)
}

// Info implements Logger.
func (z *ZapLogger) Info(msg string, fields ...Field) {
	z.l.Info(msg, toZap(fields)...)
}

// Warn implements Logger.
func (z *ZapLogger) Warn(msg string, fields ...Field) {
	z.l.Warn(msg, toZap(fields)...)
}

// Error implements Logger.
func (z *ZapLogger) Error(msg string, fields ...Field) {
	z.l.Error(msg, toZap(fields)...)
}

// Sync flushes buffered log entries.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}

func toZap(fields []Field) []zap.Field {
	zf := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zf = append(zf, zap.Any(f.Key, f.Value))
	}
	return zf
}
