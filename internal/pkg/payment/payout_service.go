package payment

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/mizuki-dev/GiftMarche/app/repository"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// PayoutService reconciles provider payout lifecycle events into local
// payout rows. A payout is observed multiple times (created, updated, paid)
// and must converge to a single row keyed by the provider payout id.
type PayoutService struct {
	repos *repository.Repositories
}

// NewPayoutService creates a payout service over the repository bundle.
func NewPayoutService(repos *repository.Repositories) *PayoutService {
	return &PayoutService{repos: repos}
}

// CreateOrUpdate upserts the payout row for a lifecycle event. The owning
// user is resolved once via the destination bank account; later events only
// touch the status and failure fields.
func (s *PayoutService) CreateOrUpdate(tx *gorm.DB, payout *stripe.Payout) error {
	if payout == nil || payout.ID == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "payout event carries no payout id")
	}

	bankAccountID := ""
	if payout.Destination != nil {
		bankAccountID = payout.Destination.ID
	}

	repos := s.repos.WithTx(tx)
	record, err := repos.StripeAccount.GetByBankAccountID(bankAccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not one of our sellers; the event is permanently unprocessable.
			return fiber.NewError(fiber.StatusUnprocessableEntity, "no seller account for payout destination "+bankAccountID)
		}
		return err
	}

	failureDetail := payoutFailureDetail(payout)
	row := &models.Payout{
		ProviderPayoutID: payout.ID,
		UserID:           record.UserID,
		BankAccountID:    bankAccountID,
		Amount:           payout.Amount,
		Currency:         string(payout.Currency),
		Status:           string(payout.Status),
		FailureDetail:    failureDetail,
	}
	if payout.ArrivalDate > 0 {
		arrival := time.Unix(payout.ArrivalDate, 0)
		row.ArrivalDate = &arrival
	}

	created, err := repos.Payout.FirstOrCreate(row)
	if err != nil {
		return err
	}
	if created {
		log.Infof("[Payment] Recorded payout %s for user %d (status %s)", payout.ID, record.UserID, payout.Status)
		return nil
	}

	if row.Status == string(payout.Status) && row.FailureDetail == failureDetail {
		return nil
	}
	return repos.Payout.UpdateStatus(row.ID, string(payout.Status), failureDetail)
}

func payoutFailureDetail(payout *stripe.Payout) string {
	if payout.FailureMessage != "" {
		return payout.FailureMessage
	}
	return string(payout.FailureCode)
}
