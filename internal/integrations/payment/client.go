package payment

import (
	"context"
)

// CurrencyUSD is the only currency payment intents are created in.
const CurrencyUSD = "usd"

// Gateway creates payment intents. Implementations are safe for concurrent use.
type Gateway interface {
	// CreatePaymentIntent returns the client secret of a new intent for amount
	// minor currency units. Failures are *GatewayError.
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// GatewayError carries a message that is safe to show to the caller.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string { return e.Message }

func (e *GatewayError) Unwrap() error { return e.Err }
