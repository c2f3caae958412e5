package payment

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// chargeSucceededHandler resolves the charge's transfer linkage onto the
// transaction and creates the per-order seller transfers.
type chargeSucceededHandler struct {
	deps *Deps
}

func (h *chargeSucceededHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var charge stripe.Charge
	if err := unmarshalEvent(event, &charge); err != nil {
		return err
	}
	if charge.PaymentIntent == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "charge "+charge.ID+" carries no payment intent")
	}

	repos := h.deps.Repos.WithTx(tx)
	txn, err := repos.PaymentTransaction.GetByPaymentIntentID(charge.PaymentIntent.ID)
	if err != nil {
		// Likely an ordering race with payment_intent.created; let the
		// provider redeliver.
		return err
	}

	if charge.Transfer != nil && charge.Transfer.ID != txn.TransferID {
		if err := repos.PaymentTransaction.UpdateFields(txn.ID, map[string]interface{}{
			"charge_id":   charge.ID,
			"transfer_id": charge.Transfer.ID,
		}); err != nil {
			return err
		}
		txn.TransferID = charge.Transfer.ID
		txn.ChargeID = charge.ID
	}

	return h.deps.Transfers.CreateTransfersForCharge(tx, txn, &charge)
}

// chargeFailedHandler marks the owning transaction failed.
type chargeFailedHandler struct {
	deps *Deps
}

func (h *chargeFailedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var charge stripe.Charge
	if err := unmarshalEvent(event, &charge); err != nil {
		return err
	}
	if charge.PaymentIntent == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "charge "+charge.ID+" carries no payment intent")
	}

	_, err := h.deps.Transactions.ApplyStatus(tx, charge.PaymentIntent.ID, models.PaymentStatusChargeFailed, map[string]interface{}{
		"error_detail": charge.FailureMessage,
	})
	return err
}

// chargeRefundedHandler refunds the platform's application fee alongside the
// charge so the seller is not left covering the platform's cut.
type chargeRefundedHandler struct {
	deps *Deps
}

func (h *chargeRefundedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var charge stripe.Charge
	if err := unmarshalEvent(event, &charge); err != nil {
		return err
	}

	if charge.ApplicationFee != nil {
		if _, err := h.deps.Client.CreateFeeRefund(&stripe.FeeRefundParams{
			Fee: stripe.String(charge.ApplicationFee.ID),
		}); err != nil {
			// Re-delivery would attempt a second refund of the same fee, so
			// this stays best effort.
			log.Warnf("[Payment] Refunding application fee %s failed: %v", charge.ApplicationFee.ID, err)
		}
	}

	log.Infof("[Payment] Charge %s refunded (amount_refunded=%d)", charge.ID, charge.AmountRefunded)
	return nil
}
