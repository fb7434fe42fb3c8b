package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/gatewaykit/app/controllers"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/constants"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/middleware"
)

const (
	apiRequestsPerMinute = 60
)

type ApiRouter struct {
	apiKey  string
	storage fiber.Storage
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:        apiRequestsPerMinute,
		Expiration: time.Minute,
		Storage:    h.storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "Too many requests",
			})
		},
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group(constants.APIv1Route, middleware.APIKeyAuthMiddleware(h.apiKey))
	v1.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	v1.Post("/checkout/one-time", controllers.HandleCreateOneTimeCheckout)
	v1.Post("/checkout/subscription", controllers.HandleCreateSubscriptionCheckout)
	v1.Delete("/subscriptions/:id", controllers.HandleCancelSubscription)
	v1.Post("/payment-intents", controllers.HandleCreatePaymentIntent)
	v1.Post("/payment-intents/:id/confirm", controllers.HandleConfirmPaymentIntent)

	v1.Post("/generate", controllers.HandleGenerate)
	v1.Post("/generate/context", controllers.HandleGenerateWithContext)
	v1.Post("/tokens/count", controllers.HandleCountTokens)
	v1.Post("/prompts/validate", controllers.HandleValidatePrompt)
}

func NewApiRouter(apiKey string, storage fiber.Storage) *ApiRouter {
	return &ApiRouter{apiKey: apiKey, storage: storage}
}
