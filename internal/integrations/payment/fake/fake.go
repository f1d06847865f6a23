package fake

import (
	"context"
	"fmt"

	"github.com/BearBump/ZapShift/internal/integrations/payment"
	"github.com/google/uuid"
)

// FakeGateway issues Stripe-shaped client secrets without any network call.
// Used for local runs when no gateway secret is configured.
type FakeGateway struct{}

func New() *FakeGateway { return &FakeGateway{} }

func (f *FakeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", &payment.GatewayError{Message: "Invalid positive integer"}
	}
	if currency == "" {
		return "", &payment.GatewayError{Message: "Missing required param: currency."}
	}
	id := "pi_" + uuid.NewString()
	return fmt.Sprintf("%s_secret_%s", id, uuid.NewString()), nil
}
