package models

import "time"

// Payout stores one row per provider payout. Lifecycle events (created,
// updated, paid, failed, canceled) all upsert against the unique provider
// payout id, so repeated or reordered deliveries converge to one row.
type Payout struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProviderPayoutID string   `gorm:"type:varchar(191);not null;uniqueIndex:ux_payouts_provider_payout" json:"provider_payout_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	BankAccountID   string    `gorm:"type:varchar(191);not null;default:''" json:"bank_account_id"`
	Amount          int64     `gorm:"not null" json:"amount"`
	Currency        string    `gorm:"type:varchar(8);not null;default:'jpy'" json:"currency"`
	Status          string    `gorm:"type:varchar(32);not null;index" json:"status"`
	FailureDetail   string    `gorm:"type:text" json:"failure_detail"`
	ArrivalDate     *time.Time `gorm:"type:timestamp;default:null" json:"arrival_date,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
