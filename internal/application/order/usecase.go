package order

import (
	"context"
	"errors"
	"time"

	dom "github.com/Zhima-Mochi/minishop-payorder/internal/domain"
	domain "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	orderService = "order-service"
	spanPrefix   = "UC."

	useCaseOrderCreate     = "order.create"
	useCaseOrderAddLine    = "order.add_line"
	useCaseOrderRemoveLine = "order.remove_line"
	useCaseOrderGet        = "order.get"
)

// operation carries the span, logger and RED bookkeeping of one service call.
type operation struct {
	ctx     context.Context
	span    trace.Span
	logger  observability.Logger
	useCase string
	start   time.Time
	status  string

	reqCounter   observability.Counter
	durHistogram observability.Histogram
}

func (s *Service) begin(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *operation) {
	ctx, logger := logctx.Enrich(ctx, s.log, observability.F("use_case", useCase))
	attrs = append([]attribute.KeyValue{attribute.String("use_case", useCase)}, attrs...)
	ctx, span := s.tracer.Start(ctx, spanPrefix+spanName, attrs...)

	return ctx, &operation{
		ctx:          ctx,
		span:         span,
		logger:       logger,
		useCase:      useCase,
		start:        time.Now(),
		status:       "OK",
		reqCounter:   s.reqCounter,
		durHistogram: s.durHistogram,
	}
}

func (op *operation) fail(status string) {
	op.status = status
}

func (op *operation) end(err error) {
	lat := time.Since(op.start).Seconds()
	outcome := outcomeOf(err)

	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, op.status)
	} else {
		op.span.SetStatus(codes.Ok, op.status)
	}
	op.span.End()

	op.reqCounter.Add(1,
		observability.L("use_case", op.useCase),
		observability.L("outcome", outcome),
	)
	op.durHistogram.Observe(lat,
		observability.L("use_case", op.useCase),
	)

	fields := []observability.Field{
		observability.F("outcome", outcome),
		observability.F("status", op.status),
		observability.F("latency_seconds", lat),
	}
	if sc := trace.SpanContextFromContext(op.ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	op.logger.Info("use_case_done", fields...)
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	if _, ok := dom.AsError(err); ok {
		return "rejected"
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
		return "rejected"
	}
	return "error"
}
