package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mizuki-dev/GiftMarche/internal/pkg/payment"
)

// SellerController exposes connected-account onboarding. Requesting
// onboarding also arms the status poller as a backstop for the provider's
// own account.updated webhooks.
type SellerController struct {
	accounts *payment.AccountService
	poller   *payment.AccountPoller
}

// NewSellerController creates the seller controller.
func NewSellerController(accounts *payment.AccountService, poller *payment.AccountPoller) *SellerController {
	return &SellerController{accounts: accounts, poller: poller}
}

type onboardingRequest struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Country string `json:"country"`
}

// HandleBeginOnboarding creates (or returns) the seller's connected account
// and starts the verification poller.
func (sc *SellerController) HandleBeginOnboarding(c *fiber.Ctx) error {
	var req onboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.UserID == 0 || strings.TrimSpace(req.Email) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id and email are required"})
	}
	if req.Country == "" {
		req.Country = "JP"
	}

	record, err := sc.accounts.BeginOnboarding(req.UserID, req.Email, req.Country)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not create connected account"})
	}

	// No-op when a previous onboarding already armed it.
	sc.poller.Start()

	return c.Status(fiber.StatusCreated).JSON(record)
}
