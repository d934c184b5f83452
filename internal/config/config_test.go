package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "minishop", cfg.ServiceName)
				assert.Equal(t, "dev", cfg.Env)
				assert.Equal(t, ":8080", cfg.HTTPAddr)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.LogFile)
				assert.Equal(t, "USD", cfg.DefaultCurrency)
				assert.Empty(t, cfg.FailingOrders)
				assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"SERVICE_NAME":        "payments",
				"HTTP_ADDR":           "localhost:9999",
				"DEFAULT_CURRENCY":    "EUR",
				"GATEWAY_FAIL_ORDERS": "order_1,order_2",
				"SHUTDOWN_TIMEOUT":    "3s",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "payments", cfg.ServiceName)
				assert.Equal(t, "localhost:9999", cfg.HTTPAddr)
				assert.Equal(t, "EUR", cfg.DefaultCurrency)
				assert.Equal(t, []string{"order_1", "order_2"}, cfg.FailingOrders)
				assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
			},
		},
		{
			name:  "flags only",
			flags: []string{"-a", "localhost:7777"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost:7777", cfg.HTTPAddr)
			},
		},
		{
			name:  "env overrides flags",
			env:   map[string]string{"HTTP_ADDR": "env:9000"},
			flags: []string{"-a", "flag:8000"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "env:9000", cfg.HTTPAddr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Parse(tt.flags)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		_, err := Parse(nil)
		assert.Error(t, err)
	})
	t.Run("non-positive timeout", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "0s")
		_, err := Parse(nil)
		assert.Error(t, err)
	})
	t.Run("unknown flag", func(t *testing.T) {
		_, err := Parse([]string{"-x"})
		assert.Error(t, err)
	})
}
