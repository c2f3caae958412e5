package payment

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// paymentMethodAttachedHandler promotes a freshly attached method to the
// customer's default for future charges.
type paymentMethodAttachedHandler struct {
	deps *Deps
}

func (h *paymentMethodAttachedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pm stripe.PaymentMethod
	if err := unmarshalEvent(event, &pm); err != nil {
		return err
	}
	if pm.Customer == nil {
		return nil
	}
	// Setting the same default twice is harmless, so a transient failure can
	// safely surface as a retry.
	return h.deps.Client.SetDefaultPaymentMethod(pm.Customer.ID, pm.ID)
}

// paymentMethodDetachedHandler only records the detachment; the provider
// already cleared any default pointing at the method.
type paymentMethodDetachedHandler struct {
	deps *Deps
}

func (h *paymentMethodDetachedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pm stripe.PaymentMethod
	if err := unmarshalEvent(event, &pm); err != nil {
		return err
	}
	log.Infof("[Payment] Payment method %s detached", pm.ID)
	return nil
}

// paymentMethodUpdatedHandler covers card network refreshes (new expiry or
// number on the same method).
type paymentMethodUpdatedHandler struct {
	deps *Deps
}

func (h *paymentMethodUpdatedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pm stripe.PaymentMethod
	if err := unmarshalEvent(event, &pm); err != nil {
		return err
	}
	log.Infof("[Payment] Payment method %s automatically updated", pm.ID)
	return nil
}
