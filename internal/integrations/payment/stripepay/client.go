// Package stripepay creates payment intents through the Stripe SDK.
package stripepay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/BearBump/ZapShift/internal/integrations/payment"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

const (
	defaultTimeout = 10 * time.Second

	requestFailedText = "payment gateway request failed"
	noSecretText      = "payment gateway returned no client secret"
)

type Config struct {
	SecretKey string
	// BaseURL overrides the Stripe API host, e.g. for stripe-mock.
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	intents paymentintent.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	bc := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     slogLogger{},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.BaseURL != "" {
		bc.URL = stripe.String(cfg.BaseURL)
	}
	return &Client{
		intents: paymentintent.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, bc),
			Key: cfg.SecretKey,
		},
	}
}

// CreatePaymentIntent creates a card-only intent. Stripe's own error message
// is passed through to the caller when there is one.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	pi, err := c.intents.New(params)
	if err != nil {
		var sErr *stripe.Error
		if errors.As(err, &sErr) && sErr.Msg != "" {
			return "", &payment.GatewayError{Message: sErr.Msg, Err: err}
		}
		return "", &payment.GatewayError{Message: requestFailedText, Err: errors.Wrap(err, "create payment intent")}
	}
	if pi.ClientSecret == "" {
		return "", &payment.GatewayError{Message: noSecretText}
	}
	return pi.ClientSecret, nil
}

// slogLogger routes the SDK's own logging into slog.
type slogLogger struct{}

func (slogLogger) Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...), "component", "stripe") }
func (slogLogger) Infof(format string, v ...any)  { slog.Info(fmt.Sprintf(format, v...), "component", "stripe") }
func (slogLogger) Warnf(format string, v ...any)  { slog.Warn(fmt.Sprintf(format, v...), "component", "stripe") }
func (slogLogger) Errorf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...), "component", "stripe") }
