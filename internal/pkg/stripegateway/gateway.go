// Package stripegateway wraps the Stripe checkout, subscription, payment
// intent and webhook APIs behind small result records.
package stripegateway

import (
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
)

const defaultCurrency = "usd"

type Config struct {
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Currency      string

	// Backends overrides the Stripe HTTP backends, nil uses the defaults.
	Backends *stripe.Backends
}

// Gateway is safe for concurrent use. It never touches the global
// stripe.Key, every call goes through its own client.
type Gateway struct {
	client        *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	currency      string
}

func New(cfg Config) *Gateway {
	sc := &client.API{}
	sc.Init(cfg.APIKey, cfg.Backends)

	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return &Gateway{
		client:        sc,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		currency:      currency,
	}
}

// NewFromConfig builds a gateway from the service configuration.
func NewFromConfig(cfg config.Stripe) *Gateway {
	return New(Config{
		APIKey:        cfg.APIKey,
		WebhookSecret: cfg.WebhookSecret,
		SuccessURL:    cfg.SuccessURL,
		CancelURL:     cfg.CancelURL,
		Currency:      cfg.Currency,
	})
}

func (g *Gateway) currencyOr(currency string) string {
	c := strings.ToLower(strings.TrimSpace(currency))
	if c == "" {
		return g.currency
	}
	return c
}

// errorMessage prefers the human readable Stripe message over the JSON
// rendering stripe.Error uses for Error().
func errorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}

func copyMetadata(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
