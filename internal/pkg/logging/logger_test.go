package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"info":    zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		" warn ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger(Options{Service: "minishop", Env: "test", Level: "debug", File: path})
	require.NoError(t, err)

	WithTrace(logger, SystemTraceID, "").Info("http_server_start")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := string(data)
	assert.True(t, strings.Contains(line, `"msg":"http_server_start"`), line)
	assert.Contains(t, line, `"service":"minishop"`)
	assert.Contains(t, line, `"env":"test"`)
	assert.Contains(t, line, `"trace_id":"system"`)
	assert.Contains(t, line, `"span_id":"unknown"`)
	assert.Contains(t, line, `"level":"info"`)
}
