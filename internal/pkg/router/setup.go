package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers the webhook routes and the JSON API. storage
// backs the API rate limiter, nil keeps the limiter in memory.
func InstallRouter(app *fiber.App, cfg *config.Config, storage fiber.Storage) {
	setup(app, NewWebhookRouter(), NewApiRouter(cfg.Auth.APIKey, storage))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
