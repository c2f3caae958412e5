package repository

import (
	"github.com/mizuki-dev/GiftMarche/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// payoutRepository implements the PayoutRepository interface
type payoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new payout repository instance
func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) WithTx(tx *gorm.DB) PayoutRepository {
	if tx == nil {
		return r
	}
	return &payoutRepository{db: tx}
}

// FirstOrCreate inserts the payout unless a row for the provider payout id
// already exists. Concurrent deliveries race on the unique index, so the
// insert is DoNothing and the stored row is re-read afterwards.
func (r *payoutRepository) FirstOrCreate(payout *models.Payout) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_payout_id"}},
		DoNothing: true,
	}).Create(payout)
	if tx.Error != nil {
		return false, tx.Error
	}

	created := tx.RowsAffected > 0
	if err := r.db.Where("provider_payout_id = ?", payout.ProviderPayoutID).First(payout).Error; err != nil {
		return false, err
	}
	return created, nil
}

// GetByProviderPayoutID retrieves a payout by the provider-assigned payout id
func (r *payoutRepository) GetByProviderPayoutID(providerPayoutID string) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.Where("provider_payout_id = ?", providerPayoutID).First(&payout).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// UpdateStatus updates only the status and failure fields of a payout
func (r *payoutRepository) UpdateStatus(id uint, status, failureDetail string) error {
	return r.db.Model(&models.Payout{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         status,
		"failure_detail": failureDetail,
	}).Error
}
