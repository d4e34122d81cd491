package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level logrus.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.log.SetLevel(level)
	logger.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, &buf
}

func TestNew_DefaultLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	logger := New()
	require.NotNil(t, logger)
	assert.Equal(t, logrus.InfoLevel, logger.log.GetLevel())
}

func TestNew_LevelFromEnvironment(t *testing.T) {
	tests := []struct {
		envValue string
		expected logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"debug", logrus.DebugLevel},
		{"INFO", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"invalid", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.envValue, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envValue)
			assert.Equal(t, tt.expected, New().log.GetLevel())
		})
	}
}

func TestSetLevel_IgnoresUnknown(t *testing.T) {
	logger := New()
	logger.SetLevel("debug")
	assert.Equal(t, logrus.DebugLevel, logger.log.GetLevel())

	logger.SetLevel("chatty")
	assert.Equal(t, logrus.DebugLevel, logger.log.GetLevel())
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.InfoLevel)
	logger.Debug("hidden %d", 1)
	assert.Empty(t, buf.String())
}

func TestWithFields(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.DebugLevel)

	logger.InfoWithFields(logrus.Fields{"cursor": 42}, "cycle %s", "done")
	logger.WarnWithFields(logrus.Fields{"chat": 7}, "send failed")

	out := buf.String()
	assert.Contains(t, out, "cycle done")
	assert.Contains(t, out, "cursor=42")
	assert.Contains(t, out, "send failed")
	assert.Contains(t, out, "chat=7")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger.GetLogrus())
	logger.Error("nothing to see")
}
