package payment

import (
	"context"
	"sync"

	"github.com/Zhima-Mochi/minishop-payorder/internal/domain/money"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability/logctx"
)

const componentFakeGateway = "fake_payment_gateway"

// Charge is one recorded charge attempt.
type Charge struct {
	OrderID string
	Amount  money.Money
	Success bool
}

// FakeGateway approves every charge except those for order ids registered via
// FailOn. Every attempt is logged and kept in memory for inspection.
type FakeGateway struct {
	mu      sync.Mutex
	failOn  map[string]struct{}
	charges []Charge
	log     observability.Logger
}

func NewFakeGateway(logger observability.Logger, failOn ...string) *FakeGateway {
	if logger == nil {
		logger = observability.NopLogger()
	}
	g := &FakeGateway{
		failOn: make(map[string]struct{}, len(failOn)),
		log:    logger,
	}
	g.FailOn(failOn...)
	return g
}

// FailOn makes subsequent charges for the given order ids decline.
func (g *FakeGateway) FailOn(orderIDs ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range orderIDs {
		if id != "" {
			g.failOn[id] = struct{}{}
		}
	}
}

func (g *FakeGateway) Charge(ctx context.Context, orderID string, amount money.Money) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	g.mu.Lock()
	_, declined := g.failOn[orderID]
	g.charges = append(g.charges, Charge{OrderID: orderID, Amount: amount, Success: !declined})
	g.mu.Unlock()

	logctx.FromOr(ctx, g.log).Info("payment_charge_attempt",
		observability.F("component", componentFakeGateway),
		observability.F("order_id", orderID),
		observability.F("amount", amount.String()),
		observability.F("success", !declined),
	)
	return !declined, nil
}

// Charges returns a snapshot of every recorded attempt in call order.
func (g *FakeGateway) Charges() []Charge {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Charge(nil), g.charges...)
}

func (g *FakeGateway) ChargesCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

func (g *FakeGateway) ClearLog() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges = nil
}
