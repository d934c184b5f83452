package order

import "context"

// Repository loads and stores whole orders. FindByID returns ErrNotFound when
// no order exists for the id; Save is a full upsert keyed by Order.ID.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Order, error)
	Save(ctx context.Context, order *Order) error
}
