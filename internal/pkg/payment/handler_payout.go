package payment

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// payoutLifecycleHandler serves every payout event type. All of them funnel
// into the same idempotent upsert, so created/updated/paid/failed/canceled
// can arrive in any order and any number of times.
type payoutLifecycleHandler struct {
	deps *Deps
}

func (h *payoutLifecycleHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var payout stripe.Payout
	if err := unmarshalEvent(event, &payout); err != nil {
		return err
	}
	return h.deps.Payouts.CreateOrUpdate(tx, &payout)
}
