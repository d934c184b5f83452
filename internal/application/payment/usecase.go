package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/minishop-payorder/internal/application"
	"github.com/Zhima-Mochi/minishop-payorder/internal/domain"
	"github.com/Zhima-Mochi/minishop-payorder/internal/domain/money"
	domorder "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	paymentService   = "payment-service"
	useCasePayOrder  = "payment.pay_order"
	payOrderSpanName = "PayOrder"
	spanPrefix       = "UC."
	gatewayPeer      = "payment_gateway"
	gatewayEndpoint  = "charge"

	msgPaymentFailed = "Payment failed"
	unexpectedPrefix = "Unexpected error: "
)

var _ application.UseCase[PayOrderRequest, PayOrderResponse] = (*PayOrderUseCase)(nil)

// PayOrderUseCase charges an order and marks it paid.
type PayOrderUseCase struct {
	orders  OrderRepository
	gateway Gateway
	tracer  observability.Tracer
	log     observability.Logger

	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

func NewPayOrderUseCase(orders OrderRepository, gateway Gateway, tel observability.Observability) *PayOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()

	return &PayOrderUseCase{
		orders:       orders,
		gateway:      gateway,
		tracer:       tel.Tracer(),
		log:          tel.Logger().With(observability.F("service", paymentService)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

// Execute loads the order, pays a copy of it, charges the gateway and persists
// the paid copy only after the charge went through. Every failure, including a
// panicking adapter, is reported in the response.
func (uc *PayOrderUseCase) Execute(ctx context.Context, req PayOrderRequest) (resp PayOrderResponse) {
	ctx, logger := logctx.Enrich(ctx, uc.log,
		observability.F("use_case", useCasePayOrder),
		observability.F("order_id", req.OrderID),
	)

	ctx, span := uc.tracer.Start(ctx, spanPrefix+payOrderSpanName,
		attribute.String("use_case", useCasePayOrder),
		attribute.String("order.id", req.OrderID),
	)
	start := time.Now()
	statusText := "OK"
	var cause error

	defer func() {
		if r := recover(); r != nil {
			statusText = "PANIC"
			cause = fmt.Errorf("panic: %v", r)
			resp = failWith(req.OrderID, cause)
		}

		outcome := outcomeOf(resp)
		latency := time.Since(start).Seconds()

		if cause != nil {
			span.RecordError(cause)
		}
		if resp.Success {
			span.SetStatus(codes.Ok, statusText)
		} else {
			span.SetStatus(codes.Error, statusText)
		}
		span.End()

		uc.reqCounter.Add(1,
			observability.L("use_case", useCasePayOrder),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(latency,
			observability.L("use_case", useCasePayOrder),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", latency),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if resp.AmountPaid != "" {
			fields = append(fields, observability.F("amount_paid", resp.AmountPaid))
		}
		if cause != nil {
			fields = append(fields, observability.F("error", cause.Error()))
		}
		if outcome == "error" {
			logger.Error("use_case_done", fields...)
			return
		}
		logger.Info("use_case_done", fields...)
	}()

	order, err := uc.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, domorder.ErrNotFound) {
			statusText = "ORDER_NOT_FOUND"
			return fail(req.OrderID, ReasonNotFound, fmt.Sprintf("Order %s not found", req.OrderID))
		}
		statusText, cause = "ORDER_LOOKUP_FAILED", err
		return failWith(req.OrderID, err)
	}

	// The loaded order is never mutated; only the paid copy may reach the repository.
	candidate := order.Clone()
	if err := candidate.Pay(); err != nil {
		statusText, cause = "PAY_REJECTED", err
		return failWith(req.OrderID, err)
	}

	amount, err := candidate.TotalAmount()
	if err != nil {
		statusText, cause = "TOTAL_FAILED", err
		return failWith(req.OrderID, err)
	}
	span.SetAttributes(attribute.String("payment.amount", amount.String()))

	charged, err := uc.charge(ctx, candidate.ID, amount)
	if err != nil {
		statusText, cause = "GATEWAY_ERROR", err
		return failWith(req.OrderID, err)
	}
	if !charged {
		statusText = "PAYMENT_DECLINED"
		return fail(req.OrderID, ReasonPaymentDeclined, msgPaymentFailed)
	}

	if err := uc.orders.Save(ctx, candidate); err != nil {
		statusText, cause = "ORDER_SAVE_FAILED", err
		return failWith(req.OrderID, err)
	}

	span.AddEvent("order.paid", trace.WithAttributes(attribute.String("order.id", candidate.ID)))
	return PayOrderResponse{
		Success:    true,
		OrderID:    candidate.ID,
		AmountPaid: amount.String(),
	}
}

func (uc *PayOrderUseCase) charge(ctx context.Context, orderID string, amount money.Money) (bool, error) {
	start := time.Now()
	charged, err := uc.gateway.Charge(ctx, orderID, amount)

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case !charged:
		outcome = "declined"
	}
	uc.extCounter.Add(1,
		observability.L("peer", gatewayPeer),
		observability.L("endpoint", gatewayEndpoint),
		observability.L("outcome", outcome),
	)
	uc.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", gatewayPeer),
		observability.L("endpoint", gatewayEndpoint),
	)

	if err != nil {
		return false, fmt.Errorf("payment: charge %s: %w", orderID, err)
	}
	return charged, nil
}

func fail(orderID string, reason FailureReason, msg string) PayOrderResponse {
	return PayOrderResponse{
		Success:       false,
		OrderID:       orderID,
		ErrorMessage:  msg,
		FailureReason: reason,
	}
}

// failWith reports a domain rule violation by its message and anything else
// as an unexpected error.
func failWith(orderID string, err error) PayOrderResponse {
	if derr, ok := domain.AsError(err); ok {
		return fail(orderID, ReasonDomainRule, derr.Message)
	}
	return fail(orderID, ReasonUnexpected, unexpectedPrefix+err.Error())
}

func outcomeOf(resp PayOrderResponse) string {
	switch {
	case resp.Success:
		return "success"
	case resp.FailureReason == ReasonUnexpected:
		return "error"
	default:
		return "rejected"
	}
}
