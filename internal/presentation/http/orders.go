package httppresentation

import (
	"errors"
	"net/http"
	"time"

	appOrder "github.com/Zhima-Mochi/minishop-payorder/internal/application/order"
	appPayment "github.com/Zhima-Mochi/minishop-payorder/internal/application/payment"
	"github.com/Zhima-Mochi/minishop-payorder/internal/domain"
	"github.com/Zhima-Mochi/minishop-payorder/internal/domain/money"
	domainOrder "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability/logctx"
	"github.com/go-chi/chi/v5"
)

type lineRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

func (l lineRequest) input() appOrder.LineInput {
	return appOrder.LineInput{
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
	}
}

type createOrderRequest struct {
	CustomerID string        `json:"customer_id"`
	Currency   string        `json:"currency,omitempty"`
	Lines      []lineRequest `json:"lines"`
}

type createOrderResponse struct {
	OrderID  string             `json:"order_id"`
	Status   domainOrder.Status `json:"status"`
	Currency string             `json:"currency"`
	Total    string             `json:"total"`
}

type lineView struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

type orderView struct {
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	Status     domainOrder.Status `json:"status"`
	Currency   string             `json:"currency"`
	Lines      []lineView         `json:"lines"`
	Total      string             `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// amount renders a money amount as a fixed two-decimal string.
func amount(m money.Money) string {
	return m.Amount().StringFixedBank(2)
}

func newOrderView(o *domainOrder.Order) (orderView, error) {
	total, err := o.TotalAmount()
	if err != nil {
		return orderView{}, err
	}
	lines := make([]lineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		price, err := l.TotalPrice()
		if err != nil {
			return orderView{}, err
		}
		lines = append(lines, lineView{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   amount(l.UnitPrice),
			TotalPrice:  amount(price),
		})
	}
	return orderView{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Currency:   total.Currency(),
		Lines:      lines,
		Total:      amount(total),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}, nil
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	lines := make([]appOrder.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, l.input())
	}
	result, err := h.orders.CreateOrder(r.Context(), appOrder.CreateOrderInput{
		CustomerID: req.CustomerID,
		Currency:   req.Currency,
		Lines:      lines,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		OrderID:  result.OrderID,
		Status:   result.Status,
		Currency: result.Total.Currency(),
		Total:    amount(result.Total),
	})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	h.writeOrder(w, r, o, err)
}

func (h *Handler) handleAddLine(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.orders.AddLine(r.Context(), chi.URLParam(r, "orderID"), req.input())
	h.writeOrder(w, r, o, err)
}

func (h *Handler) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.RemoveLine(r.Context(), chi.URLParam(r, "orderID"), chi.URLParam(r, "productID"))
	h.writeOrder(w, r, o, err)
}

func (h *Handler) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	resp := h.pay.Execute(r.Context(), appPayment.PayOrderRequest{OrderID: chi.URLParam(r, "orderID")})
	writeJSON(w, payStatus(resp), resp)
}

func payStatus(resp appPayment.PayOrderResponse) int {
	if resp.Success {
		return http.StatusOK
	}
	switch resp.FailureReason {
	case appPayment.ReasonNotFound:
		return http.StatusNotFound
	case appPayment.ReasonDomainRule:
		return http.StatusConflict
	case appPayment.ReasonPaymentDeclined:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeOrder(w http.ResponseWriter, r *http.Request, o *domainOrder.Order, err error) {
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := newOrderView(o)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appOrder.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainOrder.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		if derr, ok := domain.AsError(err); ok {
			writeMessage(w, http.StatusConflict, derr.Message)
			return
		}
		logctx.FromOr(r.Context(), h.log).Error("request_failed", observability.F("error", err))
		writeMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
