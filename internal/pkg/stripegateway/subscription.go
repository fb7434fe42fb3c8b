package stripegateway

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v79"
)

var ErrMissingSubscriptionID = errors.New("subscription id is required")

type CancelResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CancelSubscription cancels a subscription immediately and reports the
// status Stripe returns, normally "canceled".
func (g *Gateway) CancelSubscription(ctx context.Context, subscriptionID string) CancelResult {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return CancelResult{Success: false, Error: ErrMissingSubscriptionID.Error()}
	}

	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	sub, err := g.client.Subscriptions.Cancel(id, params)
	if err != nil {
		msg := errorMessage(err)
		log.Errorf("[StripeGateway] cancel subscription %s failed: %s", id, msg)
		return CancelResult{Success: false, Error: msg}
	}
	return CancelResult{Success: true, Status: string(sub.Status)}
}
