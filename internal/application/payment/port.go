package payment

import (
	domorder "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
	dompay "github.com/Zhima-Mochi/minishop-payorder/internal/domain/payment"
)

// OrderRepository is the outbound port the use case loads and persists orders through.
type OrderRepository interface {
	domorder.Repository
}

// Gateway is an outbound port for the charge capability.
type Gateway interface {
	dompay.Gateway
}
