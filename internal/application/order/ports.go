package order

import (
	domain "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
)

type IDGenerator interface {
	NewID() string
}

// Repository is the outbound port the service loads and stores orders through.
type Repository interface {
	domain.Repository
}
