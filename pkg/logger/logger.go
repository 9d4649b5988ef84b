package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

type ctxKey struct{}

// Init builds the global logger for one binary. Every line carries the
// service name and environment so dashboard and devimport output can share a sink.
func Init(service, environment string) error {
	var config zap.Config

	switch environment {
	case "production", "staging":
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// import runs log one warning per bad row; sampling would drop them
		config.Sampling = nil
	default:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	built, err := config.Build(zap.Fields(
		zap.String("service", service),
		zap.String("environment", environment),
	))
	if err != nil {
		return err
	}

	log = built
	return nil
}

// Get returns the global logger instance
func Get() *zap.Logger {
	if log == nil {
		// Fallback to a basic logger if Init wasn't called
		log, _ = zap.NewDevelopment()
	}
	return log
}

// ContextWithCorrelationID stores the request correlation id on ctx so that
// WithContext can attach it to log lines further down the call chain.
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, correlationID)
}

// CorrelationIDFromContext returns the correlation id stored on ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContext returns the global logger annotated with request scoped fields
func WithContext(ctx context.Context) *zap.Logger {
	l := Get()
	if id := CorrelationIDFromContext(ctx); id != "" {
		return l.With(zap.String("correlation_id", id))
	}
	return l
}

// WithComponent scopes the global logger to one subsystem, e.g. "csvimport".
func WithComponent(name string) *zap.Logger {
	return Get().With(zap.String("component", name))
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}
