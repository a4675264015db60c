package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

type Fields = logrus.Fields

const (
	CorrelationIDKey contextKey = "correlation_id"
	RequestIDKey     contextKey = "request_id"
)

// idKeys lists the context values copied onto every log entry.
var idKeys = []contextKey{CorrelationIDKey, RequestIDKey}

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stdout)
	if err := ConfigureLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")); err != nil {
		logger.WithError(err).Warn("Invalid logging settings, using info level JSON output")
	}
}

// ConfigureLogger sets the level ("info" when empty) and the output format,
// "json" (default) or "text". Invalid values leave the defaults in place.
func ConfigureLogger(level, format string) error {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		lvl = parsed
	}

	var formatter logrus.Formatter
	switch strings.ToLower(format) {
	case "", "json":
		formatter = &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}
	case "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	logger.SetLevel(lvl)
	logger.SetFormatter(formatter)
	return nil
}

func GetLogger() *logrus.Logger {
	return logger
}

func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

func GetCorrelationID(ctx context.Context) string {
	return contextID(ctx, CorrelationIDKey)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	return contextID(ctx, RequestIDKey)
}

func contextID(ctx context.Context, key contextKey) string {
	id, _ := ctx.Value(key).(string)
	return id
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

func GenerateRequestID() string {
	return "req_" + uuid.New().String()
}

// LoggerFromContext returns an entry carrying the correlation and request ids
// stored in ctx, if any.
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	for _, key := range idKeys {
		if id := contextID(ctx, key); id != "" {
			entry = entry.WithField(string(key), id)
		}
	}
	return entry
}

func withFields(entry *logrus.Entry, fields []logrus.Fields) *logrus.Entry {
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	return entry
}

func LogInfo(ctx context.Context, message string, fields ...logrus.Fields) {
	withFields(LoggerFromContext(ctx), fields).Info(message)
}

func LogError(ctx context.Context, message string, err error, fields ...logrus.Fields) {
	withFields(LoggerFromContext(ctx).WithError(err), fields).Error(message)
}

func LogWarn(ctx context.Context, message string, fields ...logrus.Fields) {
	withFields(LoggerFromContext(ctx), fields).Warn(message)
}

func LogDebug(ctx context.Context, message string, fields ...logrus.Fields) {
	withFields(LoggerFromContext(ctx), fields).Debug(message)
}

// ToolLogWriter returns a writer that logs every line written to it at warn
// level, tagged with the external tool name. Callers must close it once the
// tool has exited.
func ToolLogWriter(ctx context.Context, tool string, fields ...logrus.Fields) *io.PipeWriter {
	entry := withFields(LoggerFromContext(ctx).WithField("tool", tool), fields)
	return entry.WriterLevel(logrus.WarnLevel)
}
