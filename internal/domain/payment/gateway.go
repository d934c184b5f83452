package payment

import (
	"context"

	"github.com/Zhima-Mochi/minishop-payorder/internal/domain/money"
)

// Gateway charges an external payment provider. The boolean result is
// authoritative: false means the charge was declined. A non-nil error means
// the outcome is unknown because the call itself failed.
type Gateway interface {
	Charge(ctx context.Context, orderID string, amount money.Money) (bool, error)
}
