package repository

import (
	"github.com/mizuki-dev/GiftMarche/app/models"
	"gorm.io/gorm"
)

// PaymentTransactionRepository defines database operations for payment
// transactions. WithTx returns a repository bound to an ambient transaction
// so that a webhook handler's writes stay atomic.
type PaymentTransactionRepository interface {
	WithTx(tx *gorm.DB) PaymentTransactionRepository
	Create(txn *models.PaymentTransaction) error
	GetByPaymentIntentID(paymentIntentID string) (*models.PaymentTransaction, error)
	ListByPaymentIntentID(paymentIntentID string) ([]models.PaymentTransaction, error)
	Update(txn *models.PaymentTransaction) error
	UpdateFields(id uint, fields map[string]interface{}) error
}

// PaymentTransferRepository defines database operations for seller transfers.
type PaymentTransferRepository interface {
	WithTx(tx *gorm.DB) PaymentTransferRepository
	Create(transfer *models.PaymentTransfer) error
	GetByOrder(orderKind string, orderID uint, transactionID uint) (*models.PaymentTransfer, error)
	GetByProviderTransferID(providerTransferID string) (*models.PaymentTransfer, error)
	ListByTransactionID(transactionID uint) ([]models.PaymentTransfer, error)
	UpdateStatus(id uint, status string) error
}

// PayoutRepository defines database operations for provider payouts.
type PayoutRepository interface {
	WithTx(tx *gorm.DB) PayoutRepository
	FirstOrCreate(payout *models.Payout) (created bool, err error)
	GetByProviderPayoutID(providerPayoutID string) (*models.Payout, error)
	UpdateStatus(id uint, status, failureDetail string) error
}

// StripeAccountRepository defines database operations for seller
// verification records.
type StripeAccountRepository interface {
	WithTx(tx *gorm.DB) StripeAccountRepository
	Create(account *models.StripeAccount) error
	GetByUserID(userID uint) (*models.StripeAccount, error)
	GetByProviderAccountID(providerAccountID string) (*models.StripeAccount, error)
	GetByBankAccountID(bankAccountID string) (*models.StripeAccount, error)
	ListByStatuses(statuses []string) ([]models.StripeAccount, error)
	UpdateStatus(id uint, status string) error
	UpdateBankAccountID(id uint, bankAccountID string) error
	UpdateStatusBatch(ids []uint, statuses []string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	PaymentTransaction PaymentTransactionRepository
	PaymentTransfer    PaymentTransferRepository
	Payout             PayoutRepository
	StripeAccount      StripeAccountRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		PaymentTransaction: NewPaymentTransactionRepository(db),
		PaymentTransfer:    NewPaymentTransferRepository(db),
		Payout:             NewPayoutRepository(db),
		StripeAccount:      NewStripeAccountRepository(db),
	}
}

// WithTx returns a bundle with every repository bound to the given ambient
// transaction. A nil tx returns the receiver unchanged.
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	if tx == nil {
		return r
	}
	return &Repositories{
		PaymentTransaction: r.PaymentTransaction.WithTx(tx),
		PaymentTransfer:    r.PaymentTransfer.WithTx(tx),
		Payout:             r.Payout.WithTx(tx),
		StripeAccount:      r.StripeAccount.WithTx(tx),
	}
}
