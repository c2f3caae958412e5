package models

import "time"

// Shop is a connected seller storefront. Product and experience sales carry
// separate platform fee percents; in-store order lines may override
// InStoreFeePercent per line.
type Shop struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"not null;index" json:"user_id"`
	Name                 string    `gorm:"type:varchar(191);not null" json:"name"`
	StripeAccountID      string    `gorm:"type:varchar(191);default:''" json:"stripe_account_id"`
	ProductFeePercent    float64   `gorm:"not null;default:10" json:"product_fee_percent"`
	ExperienceFeePercent float64   `gorm:"not null;default:15" json:"experience_fee_percent"`
	InStoreFeePercent    float64   `gorm:"not null;default:5" json:"in_store_fee_percent"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
