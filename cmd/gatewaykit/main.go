package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/gatewaykit/app/controllers"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/cache"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/constants"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/env"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/gemini"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/router"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/stripegateway"
)

func main() {
	env.SetupEnvFile()
	if env.IsDev() {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetLevel(log.LevelInfo)
	}
	cfg := config.Load()

	app := NewApplication(cfg)
	err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port))
	log.Fatal(err)
}

func NewApplication(cfg *config.Config) *fiber.App {
	cache.SetupCache(cfg.Cache)

	log.Infof("[Gatewaykit] stripe key %s, gemini key %s, model %s",
		config.Mask(cfg.Stripe.APIKey), config.Mask(cfg.Gemini.APIKey), cfg.Gemini.Model)

	gateway := stripegateway.NewFromConfig(cfg.Stripe)
	controllers.InitializeCheckoutController(gateway)
	controllers.InitializeWebhookController(gateway, cache.NewWebhookEvents())
	controllers.InitializeGenerationController(
		gemini.NewFromConfig(context.Background(), cfg.Gemini, cache.NewTokenCache()),
	)

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/gatewaykit to project root
		"../../../", // Fallback
	}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); err == nil {
			basePath = path
			break
		}
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:     "gatewaykit",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		BodyLimit:   1 << 20,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// metrics
	if cfg.Auth.MetricsPassword != "" {
		metricsAuth := basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.Auth.MetricsUser: cfg.Auth.MetricsPassword,
			},
		})
		app.Get(constants.MetricsRoute, metricsAuth, counter.Handler())
		app.Get(constants.MonitorRoute, metricsAuth, monitor.New())
	} else {
		log.Warn("[Gatewaykit] METRICS_PASSWORD not set, /metrics and /monitor are disabled")
	}

	// SWAGGER / OPENAPI
	if basePath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: constants.DocsBasePath,
			FilePath: basePath + "public/docs/v1/openapi.yml",
			Path:     "v1",
		}))
	} else {
		log.Warn("[Gatewaykit] openapi.yml not found, API docs are disabled")
	}

	// ROUTER
	router.InstallRouter(app, cfg, router.NewLimiterStorage(cfg.Cache))

	return app
}
