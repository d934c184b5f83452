package httppresentation

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Zhima-Mochi/minishop-payorder/internal/application"
	appOrder "github.com/Zhima-Mochi/minishop-payorder/internal/application/order"
	appPayment "github.com/Zhima-Mochi/minishop-payorder/internal/application/payment"
	domainOrder "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability/logctx"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
	headerTenantID       = "X-Tenant-ID"
	tracerName           = "minishop.payorder.http"

	maxBodyBytes = 1 << 20
)

// OrderService is the order management surface the handlers drive.
type OrderService interface {
	CreateOrder(ctx context.Context, input appOrder.CreateOrderInput) (*appOrder.CreateOrderResult, error)
	AddLine(ctx context.Context, orderID string, line appOrder.LineInput) (*domainOrder.Order, error)
	RemoveLine(ctx context.Context, orderID, productID string) (*domainOrder.Order, error)
	Get(ctx context.Context, id string) (*domainOrder.Order, error)
}

// PayOrder executes the payment use case.
type PayOrder = application.UseCase[appPayment.PayOrderRequest, appPayment.PayOrderResponse]

type Handler struct {
	orders  OrderService
	pay     PayOrder
	metrics http.Handler
	log     observability.Logger
	tel     observability.Observability
}

// NewHandler builds the HTTP handler. metrics, when non-nil, is served on /metrics.
func NewHandler(orders OrderService, pay PayOrder, tel observability.Observability, metrics http.Handler) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		orders:  orders,
		pay:     pay,
		metrics: metrics,
		log:     tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:     tel,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	h.handle(r, http.MethodGet, "/health", h.handleHealth)
	h.handle(r, http.MethodPost, "/orders", h.handleCreateOrder)
	h.handle(r, http.MethodGet, "/orders/{orderID}", h.handleGetOrder)
	h.handle(r, http.MethodPost, "/orders/{orderID}/lines", h.handleAddLine)
	h.handle(r, http.MethodDelete, "/orders/{orderID}/lines/{productID}", h.handleRemoveLine)
	h.handle(r, http.MethodPost, "/orders/{orderID}/pay", h.handlePayOrder)

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}

// handle registers a route wrapped as
// Trace → ObservabilityMiddleware (request logger + metrics) → Access Log → Handler.
func (h *Handler) handle(r chi.Router, method, route string, handler http.HandlerFunc) {
	wrapped := h.withTrace(
		ObservabilityMiddleware(
			h.log,
			func(r *http.Request) string { return r.Header.Get(headerRequestID) },
			func(r *http.Request) string { return r.Header.Get(headerTenantID) },
			h.tel,
		)(
			h.withAccessLog(handler),
		),
	)

	r.Method(method, route, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Stable route template for low-cardinality labels.
		wrapped.ServeHTTP(w, req.WithContext(contextWithRoute(req.Context(), route)))
	}))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes.
// It relies on the request-scoped logger already injected by ObservabilityMiddleware.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer(tracerName)
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		if route == "unknown" {
			route = r.URL.Path
		}

		ctxWithSpan, span := tracer.Start(parentCtx,
			r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctxWithSpan))
	})
}

type routeKey struct{}

// contextWithRoute stores the stable route template in the context so downstream
// metrics/logging can rely on low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
