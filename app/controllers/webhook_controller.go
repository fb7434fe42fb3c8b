package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v79"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/cache"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/stripegateway"
)

type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signature string) (stripe.Event, error)
}

// EventDeduplicator reports whether an event id is seen for the first time.
// Forget drops a recorded id again.
type EventDeduplicator interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type WebhookController struct {
	verifier WebhookVerifier
	events   EventDeduplicator
}

// NewWebhookController builds the Stripe webhook handler. events may be
// nil, then redelivered events are processed again.
func NewWebhookController(verifier WebhookVerifier, events EventDeduplicator) *WebhookController {
	return &WebhookController{verifier: verifier, events: events}
}

// Global webhook controller instance
var webhookController *WebhookController

func InitializeWebhookController(verifier WebhookVerifier, events EventDeduplicator) {
	webhookController = NewWebhookController(verifier, events)
}

func GetWebhookController() *WebhookController {
	if webhookController == nil {
		InitializeWebhookController(
			stripegateway.NewFromConfig(config.Load().Stripe),
			cache.NewWebhookEvents(),
		)
	}
	return webhookController
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	return GetWebhookController().HandleStripeWebhook(c)
}

// HandleStripeWebhook verifies the Stripe-Signature header against the raw
// body before anything is parsed.
func (wc *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get(stripegateway.SignatureHeader)

	event, err := wc.verifier.VerifyWebhook(rawBody, signature)
	switch {
	case errors.Is(err, stripegateway.ErrInvalidSignature):
		log.Warnf("[StripeWebhook] invalid signature from %s", GetClientIP(c))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	case err != nil:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	if wc.events != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), paymentTimeout)
		first, derr := wc.events.MarkProcessed(ctx, event.ID)
		cancel()
		if derr != nil {
			log.Warnf("[StripeWebhook] dedup unavailable for %s: %v", event.ID, derr)
		} else if !first {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
		}
	}

	outcome := stripegateway.ParseWebhookEvent(event)
	counter.AddWebhookEvent(outcome.EventType, string(outcome.PaymentType))
	log.Infof("[StripeWebhook] %s %s (paid=%t)", event.ID, outcome.EventType, outcome.IsPaid)

	if err := c.Status(fiber.StatusOK).JSON(outcome); err != nil {
		// Stripe retries when the response fails, the retry must not be
		// swallowed as a duplicate.
		wc.forget(c.UserContext(), event.ID)
		return err
	}
	return nil
}

func (wc *WebhookController) forget(parent context.Context, eventID string) {
	if wc.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, paymentTimeout)
	defer cancel()
	if err := wc.events.Forget(ctx, eventID); err != nil {
		log.Warnf("[StripeWebhook] could not forget %s: %v", eventID, err)
	}
}
