package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mizuki-dev/GiftMarche/app/controllers"
	"github.com/mizuki-dev/GiftMarche/app/repository"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/cache"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/database"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/env"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/payment"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	cfg := payment.ConfigFromEnv()
	client := payment.NewStripeClient(env.GetEnv("STRIPE_SECRET_KEY", ""))
	orders := payment.NewOrderServices(db)
	dispatcher := payment.NewDispatcher(cache.GetClient())

	deps := payment.NewDeps(repos, client, cfg, orders, dispatcher)
	registry := payment.NewRegistry(deps)
	platformProcessor := payment.NewProcessor(cfg.PlatformWebhookSecret, registry)
	connectProcessor := payment.NewProcessor(cfg.ConnectWebhookSecret, registry)
	poller := payment.NewAccountPoller(repos, client, cfg)

	app := fiber.New(fiber.Config{
		// Raw bodies must survive untouched for signature verification.
		BodyLimit: 1 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	webhookController := controllers.NewWebhookController(db, platformProcessor, connectProcessor)
	sellerController := controllers.NewSellerController(deps.Accounts, poller)
	router.InstallRouter(app, webhookController, sellerController)

	return app
}
