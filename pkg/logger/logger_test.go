package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"development", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"production", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestGet_BeforeInitReturnsNop(t *testing.T) {
	mu.Lock()
	global = nil
	mu.Unlock()

	l := Get()
	require.NotNil(t, l)
	l.Info("dropped")
}

func TestInit(t *testing.T) {
	err := Init(&Config{Level: "debug", ServiceName: "event-service", Development: true})
	require.NoError(t, err)

	l := Get()
	assert.Equal(t, "event-service", l.service)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	child := l.With()
	assert.Equal(t, "event-service", child.service)
}
