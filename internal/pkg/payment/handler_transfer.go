package payment

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// transferConfirmedHandler reacts to transfer.created and transfer.updated.
// A confirmed, unreversed transfer marks the local record PAID; a partial or
// full reversal surfaces as FAILED.
type transferConfirmedHandler struct {
	deps *Deps
}

func (h *transferConfirmedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var transfer stripe.Transfer
	if err := unmarshalEvent(event, &transfer); err != nil {
		return err
	}

	status := models.TransferStatusPaid
	if transfer.Reversed || transfer.AmountReversed > 0 {
		status = models.TransferStatusFailed
	}
	return applyTransferStatus(h.deps, tx, transfer.ID, status)
}

// transferReversedHandler marks the local record FAILED.
type transferReversedHandler struct {
	deps *Deps
}

func (h *transferReversedHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	var transfer stripe.Transfer
	if err := unmarshalEvent(event, &transfer); err != nil {
		return err
	}
	return applyTransferStatus(h.deps, tx, transfer.ID, models.TransferStatusFailed)
}

func applyTransferStatus(deps *Deps, tx *gorm.DB, providerTransferID, status string) error {
	repos := deps.Repos.WithTx(tx)

	record, err := repos.PaymentTransfer.GetByProviderTransferID(providerTransferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Transfers created outside this pipeline produce events too.
			log.Infof("[Payment] No local record for transfer %s, skipping", providerTransferID)
			return nil
		}
		return err
	}
	if record.Status == status {
		return nil
	}
	// FAILED is terminal; a late confirmation cannot resurrect a reversal.
	if record.Status == models.TransferStatusFailed {
		return nil
	}
	return repos.PaymentTransfer.UpdateStatus(record.ID, status)
}
