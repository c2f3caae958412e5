package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/mizuki-dev/GiftMarche/app/repository"
	"gorm.io/gorm"
)

// TransactionService owns payment transaction writes. Every status change
// funnels through ApplyStatus so stale webhook deliveries can never pull a
// transaction backwards along its lifecycle.
type TransactionService struct {
	repos *repository.Repositories
}

// NewTransactionService creates a transaction service over the repository bundle.
func NewTransactionService(repos *repository.Repositories) *TransactionService {
	return &TransactionService{repos: repos}
}

// FindOrCreate returns the transaction owning a payment intent, creating it
// when the intent is seen for the first time.
func (s *TransactionService) FindOrCreate(tx *gorm.DB, seed *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	repo := s.repos.WithTx(tx).PaymentTransaction

	txn, err := repo.GetByPaymentIntentID(seed.PaymentIntentID)
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if seed.Status == "" {
		seed.Status = models.PaymentStatusCreated
	}
	if err := repo.Create(seed); err != nil {
		// A concurrent delivery may have created the row first.
		if existing, lookupErr := repo.GetByPaymentIntentID(seed.PaymentIntentID); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return seed, nil
}

// ApplyStatus moves the transaction owning a payment intent to the given
// status and merges the extra fields. The write is skipped when the stored
// status outranks the incoming one, so a stale payment_intent.processing
// delivered after payment_intent.succeeded leaves the record untouched.
func (s *TransactionService) ApplyStatus(tx *gorm.DB, paymentIntentID, status string, fields map[string]interface{}) (*models.PaymentTransaction, error) {
	repo := s.repos.WithTx(tx).PaymentTransaction

	txn, err := repo.GetByPaymentIntentID(paymentIntentID)
	if err != nil {
		return nil, err
	}

	if PaymentStatusRegression(txn.Status, status) {
		log.Warnf("[Payment] Skipping stale status %s for intent %s (stored %s)", status, paymentIntentID, txn.Status)
		return txn, nil
	}

	updates := map[string]interface{}{"status": status}
	for k, v := range fields {
		updates[k] = v
	}
	if err := repo.UpdateFields(txn.ID, updates); err != nil {
		return nil, err
	}
	return repo.GetByPaymentIntentID(paymentIntentID)
}

// PaymentStatusRegression reports whether writing the incoming status would
// move the transaction backwards. Terminal statuses never change again
// except that a re-delivery of the same status is treated as harmless.
func PaymentStatusRegression(stored, incoming string) bool {
	if stored == incoming {
		return false
	}
	if models.PaymentStatusTerminal(stored) {
		return true
	}
	return models.PaymentStatusRank(incoming) < models.PaymentStatusRank(stored)
}
