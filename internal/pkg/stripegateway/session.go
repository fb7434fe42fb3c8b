package stripegateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidInterval      = errors.New("invalid interval")
	ErrInvalidIntervalCount = errors.New("invalid interval count")
	ErrMissingProductName   = errors.New("product name is required")
)

type Interval string

const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// ParseInterval normalizes an interval name, the boolean is false for
// anything Stripe does not bill on.
func ParseInterval(s string) (Interval, bool) {
	switch i := Interval(strings.ToLower(strings.TrimSpace(s))); i {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalYear:
		return i, true
	default:
		return "", false
	}
}

type Recurrence struct {
	Interval      Interval
	IntervalCount int64
}

type SessionRequest struct {
	ProductName string
	Amount      decimal.Decimal
	Currency    string
	Metadata    map[string]string
	// Recurrence is required for subscription sessions and ignored otherwise.
	Recurrence     *Recurrence
	IdempotencyKey string
}

type SessionResult struct {
	Success   bool   `json:"success"`
	URL       string `json:"url,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MaxMinorUnits is the largest amount Stripe charges, in cents.
const MaxMinorUnits = 99999999

var maxMinorUnits = decimal.NewFromInt(MaxMinorUnits)

// ToMinorUnits converts a decimal currency amount to cents. The result is
// only meaningful for amounts accepted by ValidateAmount.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// ValidateAmount rejects amounts that round to zero cents or exceed
// MaxMinorUnits.
func ValidateAmount(amount decimal.Decimal) error {
	minor := amount.Shift(2).Round(0)
	if !amount.IsPositive() || !minor.IsPositive() || minor.GreaterThan(maxMinorUnits) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount.String())
	}
	return nil
}

// CreateOneTimeSession creates a checkout session in "payment" mode. The
// metadata is attached to the payment intent too so it comes back on the
// payment_intent.* webhooks.
func (g *Gateway) CreateOneTimeSession(ctx context.Context, req SessionRequest) SessionResult {
	if err := validateSessionRequest(req); err != nil {
		return SessionResult{Success: false, Error: err.Error()}
	}

	params := g.sessionParams(ctx, stripe.CheckoutSessionModePayment, req, nil)
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
		Metadata: copyMetadata(req.Metadata),
	}
	return g.createSession(params)
}

// CreateSubscriptionSession creates a checkout session in "subscription" mode
// with a recurring price.
func (g *Gateway) CreateSubscriptionSession(ctx context.Context, req SessionRequest) SessionResult {
	if err := validateSessionRequest(req); err != nil {
		return SessionResult{Success: false, Error: err.Error()}
	}
	recurrence, err := normalizeRecurrence(req.Recurrence)
	if err != nil {
		return SessionResult{Success: false, Error: err.Error()}
	}

	params := g.sessionParams(ctx, stripe.CheckoutSessionModeSubscription, req, &recurrence)
	params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
		Metadata: copyMetadata(req.Metadata),
	}
	return g.createSession(params)
}

func (g *Gateway) sessionParams(ctx context.Context, mode stripe.CheckoutSessionMode, req SessionRequest, recurrence *Recurrence) *stripe.CheckoutSessionParams {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(g.currencyOr(req.Currency)),
		UnitAmount: stripe.Int64(ToMinorUnits(req.Amount)),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(strings.TrimSpace(req.ProductName)),
		},
	}
	if recurrence != nil {
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval:      stripe.String(string(recurrence.Interval)),
			IntervalCount: stripe.Int64(recurrence.IntervalCount),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(mode)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(g.successURL),
		CancelURL:          stripe.String(g.cancelURL),
		Metadata:           copyMetadata(req.Metadata),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity:  stripe.Int64(1),
				PriceData: priceData,
			},
		},
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.IdempotencyKey = stripe.String(key)
	}
	params.Context = ctx
	return params
}

func (g *Gateway) createSession(params *stripe.CheckoutSessionParams) SessionResult {
	session, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		msg := errorMessage(err)
		log.Errorf("[StripeGateway] checkout session (%s) failed: %s", stripe.StringValue(params.Mode), msg)
		return SessionResult{Success: false, Error: msg}
	}
	return SessionResult{Success: true, URL: session.URL, SessionID: session.ID}
}

func validateSessionRequest(req SessionRequest) error {
	if strings.TrimSpace(req.ProductName) == "" {
		return ErrMissingProductName
	}
	return ValidateAmount(req.Amount)
}

func normalizeRecurrence(r *Recurrence) (Recurrence, error) {
	if r == nil {
		return Recurrence{}, fmt.Errorf("%w: recurrence is required", ErrInvalidInterval)
	}
	interval, ok := ParseInterval(string(r.Interval))
	if !ok {
		return Recurrence{}, fmt.Errorf("%w: %q", ErrInvalidInterval, r.Interval)
	}
	count := r.IntervalCount
	if count == 0 {
		count = 1
	}
	if count < 1 {
		return Recurrence{}, fmt.Errorf("%w: %d", ErrInvalidIntervalCount, r.IntervalCount)
	}
	return Recurrence{Interval: interval, IntervalCount: count}, nil
}
