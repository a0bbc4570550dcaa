package logger

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestZapWrapper_FieldsAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core))

	l.With(map[string]interface{}{"component": "chat"}).
		WithError(errors.New("boom")).
		Warn("reply failed", map[string]interface{}{"query": "battery dead"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		e := entries[0]
		assert.Equal(t, "reply failed", e.Message)
		assert.Equal(t, zapcore.WarnLevel, e.Level)
		ctx := e.ContextMap()
		assert.Equal(t, "chat", ctx["component"])
		assert.Equal(t, "battery dead", ctx["query"])
		assert.Equal(t, "boom", ctx["error"])
	}
}

func TestNoOpLogger(t *testing.T) {
	l := NewNoOpLogger()
	assert.NotPanics(t, func() {
		l.Info("ignored", nil)
		l.With(nil).Error("ignored", map[string]interface{}{"k": 1})
	})
}

func TestLoggerPackage_DoesNotImportTesting(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "logger.go", nil, parser.ImportsOnly)
	require.NoError(t, err)

	for _, imp := range f.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		assert.NotEqual(t, "testing", path)
		assert.False(t, strings.HasPrefix(path, "go.uber.org/zap/zaptest"), path)
	}
}
