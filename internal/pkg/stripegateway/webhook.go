package stripegateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInvalidSignature = errors.New("invalid signature")
)

// SignatureHeader is the header Stripe signs webhook deliveries with.
const SignatureHeader = "Stripe-Signature"

// VerifyWebhook checks the Stripe-Signature header against the webhook
// secret and decodes the event. The signature is checked before the body is
// parsed, so a tampered body always reports ErrInvalidSignature.
func (g *Gateway) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	return verifyWebhook(payload, signature, g.webhookSecret, webhook.DefaultTolerance)
}

func verifyWebhook(payload []byte, signature, secret string, tolerance time.Duration) (stripe.Event, error) {
	if strings.TrimSpace(secret) == "" {
		return stripe.Event{}, fmt.Errorf("%w: webhook secret is not configured", ErrInvalidSignature)
	}
	if err := webhook.ValidatePayloadWithTolerance(payload, signature, secret, tolerance); err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if event.Type == "" || event.Data == nil {
		return stripe.Event{}, fmt.Errorf("%w: missing type or data", ErrInvalidPayload)
	}
	return event, nil
}
