package models

import "time"

// Payment transfer statuses. A transfer starts as CREATED when the charge
// succeeds and is moved to PAID or FAILED by transfer lifecycle events.
const (
	TransferStatusCreated = "CREATED"
	TransferStatusPaid    = "PAID"
	TransferStatusFailed  = "FAILED"
)

// Order kinds distinguished by the transfer logic. Each kind has its own
// shop fee field and order lookup path.
const (
	OrderKindProduct    = "product"
	OrderKindInStore    = "instore"
	OrderKindExperience = "experience"
)

// PaymentTransfer represents money moved from the platform's received charge
// to a connected seller account for one order. At most one transfer exists
// per (order kind, order id, payment transaction).
type PaymentTransfer struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	PaymentTransactionID uint      `gorm:"not null;index;uniqueIndex:ux_payment_transfers_order,priority:3" json:"payment_transaction_id"`
	OrderKind            string    `gorm:"type:varchar(16);not null;uniqueIndex:ux_payment_transfers_order,priority:1" json:"order_kind"`
	OrderID              uint      `gorm:"not null;uniqueIndex:ux_payment_transfers_order,priority:2" json:"order_id"`
	StripeAccountID      string    `gorm:"type:varchar(191);not null" json:"stripe_account_id"`
	ProviderTransferID   string    `gorm:"type:varchar(191);default:'';index" json:"provider_transfer_id"`
	TransferGroup        string    `gorm:"type:varchar(191);default:''" json:"transfer_group"`
	Amount               int64     `gorm:"not null" json:"amount"`
	PlatformFee          int64     `gorm:"not null" json:"platform_fee"`
	PlatformFeePercent   float64   `gorm:"not null" json:"platform_fee_percent"`
	Status               string    `gorm:"type:varchar(16);not null;default:'CREATED';index" json:"status"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
