package repository

import (
	"github.com/mizuki-dev/GiftMarche/app/models"
	"gorm.io/gorm"
)

// paymentTransactionRepository implements the PaymentTransactionRepository interface
type paymentTransactionRepository struct {
	db *gorm.DB
}

// NewPaymentTransactionRepository creates a new payment transaction repository instance
func NewPaymentTransactionRepository(db *gorm.DB) PaymentTransactionRepository {
	return &paymentTransactionRepository{db: db}
}

func (r *paymentTransactionRepository) WithTx(tx *gorm.DB) PaymentTransactionRepository {
	if tx == nil {
		return r
	}
	return &paymentTransactionRepository{db: tx}
}

// Create creates a new payment transaction in the database
func (r *paymentTransactionRepository) Create(txn *models.PaymentTransaction) error {
	return r.db.Create(txn).Error
}

// GetByPaymentIntentID retrieves the transaction owning a payment intent
func (r *paymentTransactionRepository) GetByPaymentIntentID(paymentIntentID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.Where("payment_intent_id = ?", paymentIntentID).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListByPaymentIntentID retrieves all transactions recorded for a payment intent
func (r *paymentTransactionRepository) ListByPaymentIntentID(paymentIntentID string) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := r.db.Where("payment_intent_id = ?", paymentIntentID).Find(&txns).Error
	return txns, err
}

// Update saves the full transaction record
func (r *paymentTransactionRepository) Update(txn *models.PaymentTransaction) error {
	return r.db.Save(txn).Error
}

// UpdateFields applies a partial update by transaction id
func (r *paymentTransactionRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.PaymentTransaction{}).Where("id = ?", id).Updates(fields).Error
}
