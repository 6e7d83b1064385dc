package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(buf *bytes.Buffer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)

	return zap.New(core)
}

func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all log entries are in structured JSON format", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := newBufferLogger(&buf)
			defer logger.Sync()

			switch level {
			case "debug":
				logger.Debug(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			default:
				logger.Info(message)
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			for _, key := range []string{"level", "timestamp", "message"} {
				if _, ok := logEntry[key]; !ok {
					return false
				}
			}

			return logEntry["message"] == message
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestErrorLogsCarryStructuredContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)
	defer logger.Sync()

	logger.Error("Failed to list products", zap.String("error", "connection refused"))

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Log entry is not JSON: %v", err)
	}

	if logEntry["error"] != "connection refused" {
		t.Errorf("Expected error context in log entry, got %v", logEntry["error"])
	}
}

func TestNewReturnsLoggerForBothEnvironments(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		logger, err := New(env)
		if err != nil {
			t.Fatalf("Failed to create %s logger: %v", env, err)
		}
		if logger == nil {
			t.Fatalf("Expected non-nil %s logger", env)
		}
		logger.Sync()
	}
}

func TestNewWithDefaultsNeverNil(t *testing.T) {
	if logger := NewWithDefaults(); logger == nil {
		t.Fatal("Expected non-nil logger")
	}
}
