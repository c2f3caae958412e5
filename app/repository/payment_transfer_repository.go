package repository

import (
	"github.com/mizuki-dev/GiftMarche/app/models"
	"gorm.io/gorm"
)

// paymentTransferRepository implements the PaymentTransferRepository interface
type paymentTransferRepository struct {
	db *gorm.DB
}

// NewPaymentTransferRepository creates a new payment transfer repository instance
func NewPaymentTransferRepository(db *gorm.DB) PaymentTransferRepository {
	return &paymentTransferRepository{db: db}
}

func (r *paymentTransferRepository) WithTx(tx *gorm.DB) PaymentTransferRepository {
	if tx == nil {
		return r
	}
	return &paymentTransferRepository{db: tx}
}

// Create creates a new payment transfer in the database
func (r *paymentTransferRepository) Create(transfer *models.PaymentTransfer) error {
	return r.db.Create(transfer).Error
}

// GetByOrder retrieves the transfer created for one order under one transaction.
// This lookup guards the at-most-once transfer invariant.
func (r *paymentTransferRepository) GetByOrder(orderKind string, orderID uint, transactionID uint) (*models.PaymentTransfer, error) {
	var transfer models.PaymentTransfer
	err := r.db.
		Where("order_kind = ? AND order_id = ? AND payment_transaction_id = ?", orderKind, orderID, transactionID).
		First(&transfer).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// GetByProviderTransferID retrieves a transfer by the provider-assigned transfer id
func (r *paymentTransferRepository) GetByProviderTransferID(providerTransferID string) (*models.PaymentTransfer, error) {
	var transfer models.PaymentTransfer
	err := r.db.Where("provider_transfer_id = ?", providerTransferID).First(&transfer).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// ListByTransactionID retrieves all transfers owned by a payment transaction
func (r *paymentTransferRepository) ListByTransactionID(transactionID uint) ([]models.PaymentTransfer, error) {
	var transfers []models.PaymentTransfer
	err := r.db.Where("payment_transaction_id = ?", transactionID).Find(&transfers).Error
	return transfers, err
}

// UpdateStatus updates only the transfer status
func (r *paymentTransferRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.PaymentTransfer{}).Where("id = ?", id).Update("status", status).Error
}
