package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appOrder "github.com/Zhima-Mochi/minishop-payorder/internal/application/order"
	appPayment "github.com/Zhima-Mochi/minishop-payorder/internal/application/payment"
	"github.com/Zhima-Mochi/minishop-payorder/internal/config"
	"github.com/Zhima-Mochi/minishop-payorder/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minishop-payorder/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/minishop-payorder/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-payorder/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-payorder/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-payorder/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-payorder/internal/infrastructure/payment"
	"github.com/Zhima-Mochi/minishop-payorder/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/minishop-payorder/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(2)
	}

	baseLogger := logging.MustNewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	counters, histograms := prometrics.RegisterStandard(prometrics.New(reg, cfg.MetricsNamespace, ""))

	tel := infraobs.New(infraobs.Options{
		Tracer:     oteltrace.New(cfg.ServiceName),
		Logger:     zaplogger.New(baseLogger),
		Counters:   counters,
		Histograms: histograms,
	})

	orderRepo := memory.NewOrderRepository()
	gateway := payment.NewFakeGateway(tel.Logger(), cfg.FailingOrders...)

	orderService := appOrder.NewService(orderRepo, id.NewUUIDGenerator(), cfg.DefaultCurrency, tel)
	payOrder := appPayment.NewPayOrderUseCase(orderRepo, gateway, tel)

	handler := httppresentation.NewHandler(orderService, payOrder, tel,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
			zap.Strings("gateway_fail_orders", cfg.FailingOrders),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		systemLogger.Info("http_server_stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		systemLogger.Error("http_server_error", zap.Error(err))
		_ = baseLogger.Sync()
		os.Exit(1)
	}
}
