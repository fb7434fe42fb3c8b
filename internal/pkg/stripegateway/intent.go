package stripegateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

var (
	ErrMissingPaymentIntentID = errors.New("payment intent id is required")
	ErrMissingPaymentMethod   = errors.New("payment method is required")
)

const clientSecretPreview = 20

// PaymentIntentSummary is a display friendly view of a payment intent.
type PaymentIntentSummary struct {
	ID           string    `json:"id"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	ClientSecret string    `json:"client_secret,omitempty"`
	Created      time.Time `json:"created"`
}

// CreatePaymentIntent creates a card payment intent for amount, given in
// currency units.
func (g *Gateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, idempotencyKey string) (*stripe.PaymentIntent, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(ToMinorUnits(amount)),
		Currency:           stripe.String(g.currencyOr(currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		params.IdempotencyKey = stripe.String(key)
	}
	params.Context = ctx

	pi, err := g.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %s", errorMessage(err))
	}
	return pi, nil
}

// ConfirmPaymentIntent confirms a payment intent with a payment method such
// as "pm_card_visa".
func (g *Gateway) ConfirmPaymentIntent(ctx context.Context, paymentIntentID, paymentMethod string) (*stripe.PaymentIntent, error) {
	id := strings.TrimSpace(paymentIntentID)
	if id == "" {
		return nil, ErrMissingPaymentIntentID
	}
	pm := strings.TrimSpace(paymentMethod)
	if pm == "" {
		return nil, ErrMissingPaymentMethod
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(pm),
	}
	params.Context = ctx

	pi, err := g.client.PaymentIntents.Confirm(id, params)
	if err != nil {
		return nil, fmt.Errorf("confirm payment intent %s: %s", id, errorMessage(err))
	}
	return pi, nil
}

func FormatPaymentIntent(pi *stripe.PaymentIntent) PaymentIntentSummary {
	if pi == nil {
		return PaymentIntentSummary{}
	}

	secret := ""
	if pi.ClientSecret != "" {
		secret = pi.ClientSecret
		if len(secret) > clientSecretPreview {
			secret = secret[:clientSecretPreview]
		}
		secret += "..."
	}

	return PaymentIntentSummary{
		ID:           pi.ID,
		Amount:       "$" + decimal.New(pi.Amount, -2).StringFixed(2),
		Currency:     strings.ToUpper(string(pi.Currency)),
		Status:       string(pi.Status),
		ClientSecret: secret,
		Created:      time.Unix(pi.Created, 0).UTC(),
	}
}
