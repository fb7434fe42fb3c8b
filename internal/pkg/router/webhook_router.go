package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/gatewaykit/app/controllers"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/constants"
)

// WebhookRouter installs provider callbacks. They sit outside /api so the
// API key and the rate limiter do not apply.
type WebhookRouter struct {
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post(constants.StripeWebhookRoute, controllers.HandleStripeWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
