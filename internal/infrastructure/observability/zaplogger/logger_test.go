package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core), observability.F("service", "payment-service"))

	l.With(observability.F("order_id", "order_1")).
		Info("use_case_done", observability.F("outcome", "success"))
	l.Warn("payment_declined", observability.F("error", errors.New("declined")))
	l.Debug("debug_entry")
	l.Error("error_entry")

	require.Equal(t, 4, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "use_case_done", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, map[string]any{
		"service":  "payment-service",
		"order_id": "order_1",
		"outcome":  "success",
	}, entry.ContextMap())

	warn := logs.All()[1]
	assert.Equal(t, "declined", warn.ContextMap()["error"])
	assert.Equal(t, zapcore.WarnLevel, warn.Level)
}

func TestNewWithNilLogger(t *testing.T) {
	l := New(nil)
	assert.NotPanics(t, func() { l.Info("ignored") })
}
