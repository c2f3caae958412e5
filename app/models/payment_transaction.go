package models

import "time"

// Payment transaction lifecycle statuses. A transaction is created together
// with its payment intent and only ever advances:
// CREATED -> CHARGE_PENDING -> {CHARGE_SUCCEEDED | CHARGE_FAILED | CHARGE_CANCELED}
const (
	PaymentStatusCreated         = "CREATED"
	PaymentStatusChargePending   = "CHARGE_PENDING"
	PaymentStatusChargeSucceeded = "CHARGE_SUCCEEDED"
	PaymentStatusChargeFailed    = "CHARGE_FAILED"
	PaymentStatusChargeCanceled  = "CHARGE_CANCELED"
)

// PaymentStatusRank orders transaction statuses along the lifecycle so that
// stale webhook deliveries can never pull a transaction backwards. Terminal
// statuses share the highest rank.
func PaymentStatusRank(status string) int {
	switch status {
	case PaymentStatusCreated:
		return 0
	case PaymentStatusChargePending:
		return 1
	case PaymentStatusChargeSucceeded, PaymentStatusChargeFailed, PaymentStatusChargeCanceled:
		return 2
	default:
		return -1
	}
}

// PaymentStatusTerminal reports whether a status ends the transaction lifecycle.
func PaymentStatusTerminal(status string) bool {
	switch status {
	case PaymentStatusChargeSucceeded, PaymentStatusChargeFailed, PaymentStatusChargeCanceled:
		return true
	default:
		return false
	}
}

// PaymentTransaction represents one attempt to charge a payer. It is looked
// up by payment intent id from the webhook handlers and never deleted.
type PaymentTransaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index" json:"user_id"`
	PaymentIntentID string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_payment_transactions_intent" json:"payment_intent_id"`
	ChargeID        string    `gorm:"type:varchar(191);default:''" json:"charge_id"`
	TransferID      string    `gorm:"type:varchar(191);default:''" json:"transfer_id"`
	FeeID           string    `gorm:"type:varchar(191);default:''" json:"fee_id"`
	Status          string    `gorm:"type:varchar(32);not null;default:'CREATED';index" json:"status"`
	ReceiptURL      string    `gorm:"type:text" json:"receipt_url"`
	ErrorDetail     string    `gorm:"type:text" json:"error_detail"`
	Amount          int64     `gorm:"not null;default:0" json:"amount"`
	Currency        string    `gorm:"type:varchar(8);not null;default:'jpy'" json:"currency"`
	OrderKind       string    `gorm:"type:varchar(16);not null;default:'product';index" json:"order_kind"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
