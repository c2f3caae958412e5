package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/mizuki-dev/GiftMarche/app/controllers"
)

// InstallRouter registers every route of the application.
func InstallRouter(app *fiber.App, webhooks *controllers.WebhookController, sellers *controllers.SellerController) {
	// Webhooks are excluded from the rate limiter; the provider bursts
	// retries and a 429 would be interpreted as a failed delivery.
	app.Post("/webhooks/stripe", webhooks.HandlePlatformWebhook)
	app.Post("/webhooks/stripe/connect", webhooks.HandleConnectWebhook)

	api := app.Group("/api", limiter.New())
	v1 := api.Group("/v1")
	v1.Post("/sellers/onboarding", sellers.HandleBeginOnboarding)
}
