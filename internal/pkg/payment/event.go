package payment

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

// Processor verifies raw webhook payloads and routes decoded events to their
// handlers. Two instances exist in the application, one per webhook secret
// (platform events and connected-account events).
type Processor struct {
	secret   string
	registry *Registry
}

// NewProcessor creates a processor bound to one webhook secret.
func NewProcessor(secret string, registry *Registry) *Processor {
	return &Processor{secret: secret, registry: registry}
}

// VerifyEvent checks the payload signature against the processor's secret
// and decodes the typed event. A failing signature is fatal: the payload
// cannot be trusted and must never be retried.
func (p *Processor) VerifyEvent(payload []byte, signatureHeader string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, p.secret)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid webhook signature")
	}
	return &event, nil
}

// Process dispatches the event to its handler. The returned error decides
// delivery semantics: nil (or a swallowed 4xx-class handler error) tells the
// transport to acknowledge the event; anything else makes the transport
// signal the provider to retry delivery. tx is the ambient transaction the
// transport opened around this delivery and may be nil.
func (p *Processor) Process(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	handler, err := p.registry.HandlerFor(event.Type)
	if err != nil {
		log.Infof("[Payment] Dropping unhandled event %s (%s)", event.ID, event.Type)
		return nil
	}

	if err := handler.Handle(ctx, event, tx); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			// Permanently unprocessable; retrying cannot help.
			log.Warnf("[Payment] Dropping event %s (%s): %v", event.ID, event.Type, err)
			return nil
		}
		log.Errorf("[Payment] Event %s (%s) failed, requesting retry: %v", event.ID, event.Type, err)
		return err
	}
	return nil
}
