package fake

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BearBump/ZapShift/internal/integrations/payment"
	"github.com/stretchr/testify/require"
)

func TestFakeGateway_CreatePaymentIntent(t *testing.T) {
	g := New()
	secret, err := g.CreatePaymentIntent(context.Background(), 1500, payment.CurrencyUSD)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(secret, "pi_"))
	require.Contains(t, secret, "_secret_")

	other, err := g.CreatePaymentIntent(context.Background(), 1500, payment.CurrencyUSD)
	require.NoError(t, err)
	require.NotEqual(t, secret, other)
}

func TestFakeGateway_RejectsNonPositiveAmount(t *testing.T) {
	_, err := New().CreatePaymentIntent(context.Background(), 0, payment.CurrencyUSD)
	var gwErr *payment.GatewayError
	require.True(t, errors.As(err, &gwErr))
	require.NotEmpty(t, gwErr.Message)
}
