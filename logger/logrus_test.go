package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogrus() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logrusLogger := logrus.New()
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(logrus.InfoLevel)
	return logrusLogger, &buf
}

func TestNewLogrusLogger(t *testing.T) {
	logrusLogger, buf := setupTestLogrus()

	logrusAdapter := NewLogrusLogger(logrusLogger, Config{LogLevel: Info})

	require.NotNil(t, logrusAdapter)
	assert.Equal(t, Info, logrusAdapter.(*LogrusLogger).LogLevel)
	require.NotNil(t, buf)
}

func TestLogrusLogger_LogMode(t *testing.T) {
	logrusLogger, _ := setupTestLogrus()

	logger := NewLogrusLogger(logrusLogger, Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*LogrusLogger).LogLevel)

	// Original is not affected
	assert.Equal(t, Error, logger.(*LogrusLogger).LogLevel)
}

func TestLogrusLogger_LogLevels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		level  LogLevel
		logMsg string
	}{
		{"Info level", Info, "mirrored 3 models"},
		{"Warn level", Warn, "dropped relation field"},
		{"Error level", Error, "connection bootstrap failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logrusLogger, testBuf := setupTestLogrus()
			testLogger := NewLogrusLogger(logrusLogger, Config{LogLevel: tt.level})

			switch tt.level {
			case Info:
				testLogger.Info(ctx, tt.logMsg, "key", "value")
			case Warn:
				testLogger.Warn(ctx, tt.logMsg, "key", "value")
			case Error:
				testLogger.Error(ctx, tt.logMsg, "key", "value")
			}

			output := testBuf.String()
			assert.Contains(t, output, tt.logMsg)
			assert.Contains(t, output, "key")
			assert.Contains(t, output, "value")
		})
	}
}

func TestLogrusLogger_SilentLevel(t *testing.T) {
	ctx := context.Background()
	logrusLogger, buf := setupTestLogrus()
	logger := NewLogrusLogger(logrusLogger, Config{LogLevel: Silent})

	logger.Info(ctx, "This should not be logged")
	logger.Warn(ctx, "This should not be logged")
	logger.Error(ctx, "This should not be logged")

	assert.Empty(t, buf.String())
}

func TestLogrusLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    LogLevel
		expected logrus.Level
	}{
		{"Silent", Silent, logrus.PanicLevel},
		{"Error", Error, logrus.ErrorLevel},
		{"Warn", Warn, logrus.WarnLevel},
		{"Info", Info, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LogrusLevel(tt.level))
		})
	}
}
