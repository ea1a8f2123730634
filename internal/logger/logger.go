// Package logger provides structured logging for the audit pipeline
// and HTTP server.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

// CtxBatchID carries the current batch id into log entries.
const CtxBatchID ctxKey = "batch_id"

// CtxClient carries the selected client profile id into log entries.
const CtxClient ctxKey = "client"

// Logger is the logging interface used across the service.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
	Sync() error
}

// ZapLogger implements Logger on top of zap.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger creates a JSON zap logger at the given level.
func NewZapLogger(level string) (Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{logger: logger}, nil
}

func (l *ZapLogger) extractFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if batchID, ok := ctx.Value(CtxBatchID).(string); ok && batchID != "" {
		fields = append(fields, zap.String("batch_id", batchID))
	}
	if client, ok := ctx.Value(CtxClient).(string); ok && client != "" {
		fields = append(fields, zap.String("client", client))
	}

	return fields
}

func (l *ZapLogger) Debugf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Warnf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Errorf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// NopLogger discards everything; the default for library use and tests.
type NopLogger struct{}

// NewNopLogger creates a no-op logger.
func NewNopLogger() Logger { return NopLogger{} }

func (NopLogger) Debugf(context.Context, string, ...interface{}) {}
func (NopLogger) Infof(context.Context, string, ...interface{})  {}
func (NopLogger) Warnf(context.Context, string, ...interface{})  {}
func (NopLogger) Errorf(context.Context, string, ...interface{}) {}
func (NopLogger) Sync() error                                    { return nil }
