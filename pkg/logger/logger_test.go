package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core)).With("component", "worksession")

	log.Warn("session post dropped", "sessionId", "s-1", "reason", "SESSION_NOT_ACTIVE")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "session post dropped", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "worksession", fields["component"])
	assert.Equal(t, "s-1", fields["sessionId"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("info", true)
	require.NoError(t, err)
	log.Info("ready")
}
