package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"

	"github.com/ManuelReschke/gatewaykit/app/models"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/stripegateway"
)

const paymentTimeout = 15 * time.Second

// PaymentGateway is the part of *stripegateway.Gateway the payment
// handlers use.
type PaymentGateway interface {
	CreateOneTimeSession(ctx context.Context, req stripegateway.SessionRequest) stripegateway.SessionResult
	CreateSubscriptionSession(ctx context.Context, req stripegateway.SessionRequest) stripegateway.SessionResult
	CancelSubscription(ctx context.Context, subscriptionID string) stripegateway.CancelResult
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, idempotencyKey string) (*stripe.PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, paymentIntentID, paymentMethod string) (*stripe.PaymentIntent, error)
}

type CheckoutController struct {
	gateway PaymentGateway
}

func NewCheckoutController(gateway PaymentGateway) *CheckoutController {
	return &CheckoutController{gateway: gateway}
}

// Global checkout controller instance
var checkoutController *CheckoutController

// InitializeCheckoutController sets the gateway used by the payment routes.
func InitializeCheckoutController(gateway PaymentGateway) {
	checkoutController = NewCheckoutController(gateway)
}

// GetCheckoutController returns the global instance, building a gateway
// from the environment when none was initialized.
func GetCheckoutController() *CheckoutController {
	if checkoutController == nil {
		InitializeCheckoutController(stripegateway.NewFromConfig(config.Load().Stripe))
	}
	return checkoutController
}

func HandleCreateOneTimeCheckout(c *fiber.Ctx) error {
	return GetCheckoutController().HandleCreateOneTime(c)
}

func HandleCreateSubscriptionCheckout(c *fiber.Ctx) error {
	return GetCheckoutController().HandleCreateSubscription(c)
}

func HandleCancelSubscription(c *fiber.Ctx) error {
	return GetCheckoutController().HandleCancelSubscription(c)
}

func HandleCreatePaymentIntent(c *fiber.Ctx) error {
	return GetCheckoutController().HandleCreatePaymentIntent(c)
}

func HandleConfirmPaymentIntent(c *fiber.Ctx) error {
	return GetCheckoutController().HandleConfirmPaymentIntent(c)
}

func (cc *CheckoutController) HandleCreateOneTime(c *fiber.Ctx) error {
	var req models.CheckoutRequest
	if ok, err := parseRequest(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), paymentTimeout)
	defer cancel()

	res := cc.gateway.CreateOneTimeSession(ctx, sessionRequest(c, req, nil))
	return sessionResponse(c, string(stripe.CheckoutSessionModePayment), res)
}

func (cc *CheckoutController) HandleCreateSubscription(c *fiber.Ctx) error {
	var req models.SubscriptionCheckoutRequest
	if ok, err := parseRequest(c, &req); !ok {
		return err
	}
	interval, _ := stripegateway.ParseInterval(req.Interval)

	ctx, cancel := context.WithTimeout(c.UserContext(), paymentTimeout)
	defer cancel()

	res := cc.gateway.CreateSubscriptionSession(ctx, sessionRequest(c, req.CheckoutRequest, &stripegateway.Recurrence{
		Interval:      interval,
		IntervalCount: req.IntervalCount,
	}))
	return sessionResponse(c, string(stripe.CheckoutSessionModeSubscription), res)
}

func (cc *CheckoutController) HandleCancelSubscription(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return errorJSON(c, fiber.StatusBadRequest, "missing_subscription_id", "Subscription id is required")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), paymentTimeout)
	defer cancel()

	res := cc.gateway.CancelSubscription(ctx, id)
	if !res.Success {
		log.Warnf("[CheckoutController] cancel subscription %s failed: %s", id, res.Error)
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (cc *CheckoutController) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	var req models.PaymentIntentRequest
	if ok, err := parseRequest(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), paymentTimeout)
	defer cancel()

	pi, err := cc.gateway.CreatePaymentIntent(ctx, req.Amount, req.Currency, idempotencyKey(c))
	if err != nil {
		return errorJSON(c, fiber.StatusBadGateway, "payment_intent_failed", err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(stripegateway.FormatPaymentIntent(pi))
}

func (cc *CheckoutController) HandleConfirmPaymentIntent(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req models.ConfirmPaymentIntentRequest
	if ok, err := parseRequest(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), paymentTimeout)
	defer cancel()

	pi, err := cc.gateway.ConfirmPaymentIntent(ctx, id, req.PaymentMethod)
	if err != nil {
		return errorJSON(c, fiber.StatusBadGateway, "payment_intent_failed", err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(stripegateway.FormatPaymentIntent(pi))
}

func sessionRequest(c *fiber.Ctx, req models.CheckoutRequest, recurrence *stripegateway.Recurrence) stripegateway.SessionRequest {
	return stripegateway.SessionRequest{
		ProductName:    req.ProductName,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Metadata:       req.Metadata,
		Recurrence:     recurrence,
		IdempotencyKey: idempotencyKey(c),
	}
}

func sessionResponse(c *fiber.Ctx, mode string, res stripegateway.SessionResult) error {
	counter.AddCheckoutSession(mode, res.Success)
	if !res.Success {
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
