package payment

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// unmarshalEvent decodes the event payload into its typed object. A payload
// that does not decode can never be processed, so the error is 4xx-class.
func unmarshalEvent(event *stripe.Event, target interface{}) error {
	if err := json.Unmarshal(event.Data.Raw, target); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "malformed event payload: "+err.Error())
	}
	return nil
}

// orderKindFromIntent reads the order kind the checkout flow stamped onto
// the intent's metadata, defaulting to product.
func orderKindFromIntent(pi *stripe.PaymentIntent) string {
	switch pi.Metadata["order_kind"] {
	case models.OrderKindInStore:
		return models.OrderKindInStore
	case models.OrderKindExperience:
		return models.OrderKindExperience
	default:
		return models.OrderKindProduct
	}
}

// paymentIntentCreatedHandler records the local transaction for a freshly
// created payment intent.
type paymentIntentCreatedHandler struct {
	deps *Deps
}

func (h *paymentIntentCreatedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pi stripe.PaymentIntent
	if err := unmarshalEvent(event, &pi); err != nil {
		return err
	}

	_, err := h.deps.Transactions.FindOrCreate(tx, &models.PaymentTransaction{
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
		OrderKind:       orderKindFromIntent(&pi),
		Status:          models.PaymentStatusCreated,
	})
	return err
}

// paymentIntentProcessingHandler moves the transaction to CHARGE_PENDING and
// records the charge linkage when the provider already attached one.
type paymentIntentProcessingHandler struct {
	deps *Deps
}

func (h *paymentIntentProcessingHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pi stripe.PaymentIntent
	if err := unmarshalEvent(event, &pi); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if pi.LatestCharge != nil {
		fields["charge_id"] = pi.LatestCharge.ID
		if pi.LatestCharge.Transfer != nil {
			fields["transfer_id"] = pi.LatestCharge.Transfer.ID
		}
		if pi.LatestCharge.ApplicationFee != nil {
			fields["fee_id"] = pi.LatestCharge.ApplicationFee.ID
		}
	}

	_, err := h.deps.Transactions.ApplyStatus(tx, pi.ID, models.PaymentStatusChargePending, fields)
	return err
}

// paymentIntentSucceededHandler settles the transaction and hands the intent
// over to the fulfillment queue of its order kind.
type paymentIntentSucceededHandler struct {
	deps *Deps
}

func (h *paymentIntentSucceededHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pi stripe.PaymentIntent
	if err := unmarshalEvent(event, &pi); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if pi.LatestCharge != nil {
		fields["charge_id"] = pi.LatestCharge.ID
		fields["receipt_url"] = pi.LatestCharge.ReceiptURL
		if pi.LatestCharge.Transfer != nil {
			fields["transfer_id"] = pi.LatestCharge.Transfer.ID
		}
	}

	txn, err := h.deps.Transactions.ApplyStatus(tx, pi.ID, models.PaymentStatusChargeSucceeded, fields)
	if err != nil {
		return err
	}

	txns, err := h.deps.Repos.WithTx(tx).PaymentTransaction.ListByPaymentIntentID(pi.ID)
	if err != nil {
		return err
	}
	ids := make([]uint, 0, len(txns))
	for _, t := range txns {
		ids = append(ids, t.ID)
	}
	if err := h.deps.Dispatcher.Dispatch(ctx, txn.OrderKind, pi.ID, ids); err != nil {
		return err
	}

	// Keep the payer's method for future charges. Best effort: the charge
	// already settled and the handler must stay idempotent.
	if pi.PaymentMethod != nil && pi.Customer != nil {
		if err := h.deps.Client.SetDefaultPaymentMethod(pi.Customer.ID, pi.PaymentMethod.ID); err != nil {
			log.Warnf("[Payment] Setting default payment method for customer %s failed: %v", pi.Customer.ID, err)
		}
	}
	return nil
}

// paymentIntentFailedHandler marks the charge failed and releases any stock
// or ticket holds. The compensating releases are best effort and never block
// the status write.
type paymentIntentFailedHandler struct {
	deps *Deps
}

func (h *paymentIntentFailedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pi stripe.PaymentIntent
	if err := unmarshalEvent(event, &pi); err != nil {
		return err
	}

	reason := ""
	if pi.LastPaymentError != nil {
		reason = pi.LastPaymentError.Msg
	}
	txn, err := h.deps.Transactions.ApplyStatus(tx, pi.ID, models.PaymentStatusChargeFailed, map[string]interface{}{
		"error_detail": reason,
	})
	if err != nil {
		return err
	}

	releaseReservations(h.deps, tx, txn)
	return nil
}

// paymentIntentCanceledHandler marks the charge canceled and releases holds,
// mirroring the failed path.
type paymentIntentCanceledHandler struct {
	deps *Deps
}

func (h *paymentIntentCanceledHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var pi stripe.PaymentIntent
	if err := unmarshalEvent(event, &pi); err != nil {
		return err
	}

	txn, err := h.deps.Transactions.ApplyStatus(tx, pi.ID, models.PaymentStatusChargeCanceled, map[string]interface{}{
		"error_detail": string(pi.CancellationReason),
	})
	if err != nil {
		return err
	}

	releaseReservations(h.deps, tx, txn)
	return nil
}

// releaseReservations frees inventory or ticket locks held for a payment
// intent that will never settle. Failures are logged and swallowed: a
// missed release must not turn the status update into a retry.
func releaseReservations(deps *Deps, tx *gorm.DB, txn *models.PaymentTransaction) {
	switch txn.OrderKind {
	case models.OrderKindExperience:
		if err := deps.Orders.Experience.ReleaseTickets(tx, txn.PaymentIntentID); err != nil {
			log.Errorf("[Payment] Releasing tickets for intent %s failed: %v", txn.PaymentIntentID, err)
		}
	default:
		if err := deps.Orders.Product.ReleaseStock(tx, txn.PaymentIntentID); err != nil {
			log.Errorf("[Payment] Releasing stock for intent %s failed: %v", txn.PaymentIntentID, err)
		}
	}
}
