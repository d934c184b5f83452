// Package config reads the service configuration from the environment and flags.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"minishop"`
	Env              string        `env:"ENV" envDefault:"dev"`
	HTTPAddr         string        `env:"HTTP_ADDR"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile          string        `env:"LOG_FILE"`
	MetricsNamespace string        `env:"METRICS_NAMESPACE" envDefault:"minishop"`
	DefaultCurrency  string        `env:"DEFAULT_CURRENCY" envDefault:"USD"`
	FailingOrders    []string      `env:"GATEWAY_FAIL_ORDERS" envSeparator:","`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

const defaultHTTPAddr = ":8080"

// Parse reads the environment, then applies command-line flags for values the
// environment left unset.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envHTTPAddr := cfg.HTTPAddr

	fs := flag.NewFlagSet("minishop", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "a", defaultHTTPAddr, "address and port for HTTP server")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if envHTTPAddr != "" {
		cfg.HTTPAddr = envHTTPAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("config: SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}

	return cfg, nil
}
