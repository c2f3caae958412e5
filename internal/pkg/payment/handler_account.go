package payment

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// accountUpdatedHandler reconciles a connected-account snapshot into the
// local verification record via the state machine.
type accountUpdatedHandler struct {
	deps *Deps
}

func (h *accountUpdatedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var acct stripe.Account
	if err := unmarshalEvent(event, &acct); err != nil {
		return err
	}

	if err := h.deps.Accounts.ApplyProviderAccount(tx, &acct); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Connect webhooks cover every account on the platform, including
			// ones onboarded before this service existed.
			log.Infof("[Payment] No verification record for account %s, skipping", acct.ID)
			return nil
		}
		return err
	}
	return nil
}

// accountDeauthorizedHandler reacts to the platform losing access to a
// connected account.
type accountDeauthorizedHandler struct {
	deps *Deps
}

func (h *accountDeauthorizedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	// The deauthorized application payload carries no account object; the
	// account id rides on the event envelope.
	if event.Account == "" {
		log.Warnf("[Payment] Deauthorize event %s carries no account id", event.ID)
		return nil
	}

	if err := h.deps.Accounts.Deauthorize(tx, event.Account); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Infof("[Payment] No verification record for deauthorized account %s, skipping", event.Account)
			return nil
		}
		return err
	}
	return nil
}
