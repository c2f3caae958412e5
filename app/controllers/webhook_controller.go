package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/payment"
	"gorm.io/gorm"
)

// WebhookController terminates the provider's webhook deliveries. Two
// processors exist because platform events and connected-account events are
// signed with different secrets.
type WebhookController struct {
	db       *gorm.DB
	platform *payment.Processor
	connect  *payment.Processor
}

// NewWebhookController creates the webhook controller.
func NewWebhookController(db *gorm.DB, platform, connect *payment.Processor) *WebhookController {
	return &WebhookController{db: db, platform: platform, connect: connect}
}

// HandlePlatformWebhook serves events for the platform account.
func (wc *WebhookController) HandlePlatformWebhook(c *fiber.Ctx) error {
	return wc.handle(c, wc.platform)
}

// HandleConnectWebhook serves events for connected seller accounts.
func (wc *WebhookController) HandleConnectWebhook(c *fiber.Ctx) error {
	return wc.handle(c, wc.connect)
}

// handle verifies and processes one delivery. The handler's writes run in
// one transaction; a retryable processing error answers 500 so the provider
// redelivers, everything else acknowledges with 200. No business error
// detail leaves the process.
func (wc *WebhookController) handle(c *fiber.Ctx, processor *payment.Processor) error {
	event, err := processor.VerifyEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	err = wc.db.Transaction(func(tx *gorm.DB) error {
		return processor.Process(c.UserContext(), event, tx)
	})
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusOK)
}
