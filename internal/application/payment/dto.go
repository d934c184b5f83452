package payment

type PayOrderRequest struct {
	OrderID string `json:"order_id"`
}

// FailureReason tags why a payment attempt did not succeed.
type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonNotFound        FailureReason = "not_found"
	ReasonDomainRule      FailureReason = "domain_rule"
	ReasonPaymentDeclined FailureReason = "payment_declined"
	ReasonUnexpected      FailureReason = "unexpected"
)

type PayOrderResponse struct {
	Success       bool          `json:"success"`
	OrderID       string        `json:"order_id"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	AmountPaid    string        `json:"amount_paid,omitempty"`
	FailureReason FailureReason `json:"failure_reason,omitempty"`
}
