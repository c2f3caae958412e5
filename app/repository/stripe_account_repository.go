package repository

import (
	"github.com/mizuki-dev/GiftMarche/app/models"
	"gorm.io/gorm"
)

// stripeAccountRepository implements the StripeAccountRepository interface
type stripeAccountRepository struct {
	db *gorm.DB
}

// NewStripeAccountRepository creates a new stripe account repository instance
func NewStripeAccountRepository(db *gorm.DB) StripeAccountRepository {
	return &stripeAccountRepository{db: db}
}

func (r *stripeAccountRepository) WithTx(tx *gorm.DB) StripeAccountRepository {
	if tx == nil {
		return r
	}
	return &stripeAccountRepository{db: tx}
}

// Create creates a new verification record in the database
func (r *stripeAccountRepository) Create(account *models.StripeAccount) error {
	return r.db.Create(account).Error
}

// GetByUserID retrieves the verification record for a seller
func (r *stripeAccountRepository) GetByUserID(userID uint) (*models.StripeAccount, error) {
	var account models.StripeAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByProviderAccountID retrieves a record by the provider account id
func (r *stripeAccountRepository) GetByProviderAccountID(providerAccountID string) (*models.StripeAccount, error) {
	var account models.StripeAccount
	err := r.db.Where("provider_account_id = ?", providerAccountID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByBankAccountID resolves the record owning an external bank account.
// Payout events only carry the destination bank account id.
func (r *stripeAccountRepository) GetByBankAccountID(bankAccountID string) (*models.StripeAccount, error) {
	var account models.StripeAccount
	err := r.db.Where("bank_account_id = ?", bankAccountID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListByStatuses retrieves all records currently in one of the given statuses
func (r *stripeAccountRepository) ListByStatuses(statuses []string) ([]models.StripeAccount, error) {
	var accounts []models.StripeAccount
	err := r.db.Where("status IN ?", statuses).Find(&accounts).Error
	return accounts, err
}

// UpdateStatus updates only the verification status
func (r *stripeAccountRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.StripeAccount{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateBankAccountID records the seller's external bank account id
func (r *stripeAccountRepository) UpdateBankAccountID(id uint, bankAccountID string) error {
	return r.db.Model(&models.StripeAccount{}).Where("id = ?", id).Update("bank_account_id", bankAccountID).Error
}

// UpdateStatusBatch applies one status per record id in a single transaction.
// ids and statuses are parallel slices.
func (r *stripeAccountRepository) UpdateStatusBatch(ids []uint, statuses []string) error {
	if len(ids) != len(statuses) {
		return gorm.ErrInvalidData
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.StripeAccount{}).
				Where("id = ?", id).
				Update("status", statuses[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
