package models

import "time"

// Order statuses shared by the three order kinds.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCanceled  = "CANCELED"
	OrderStatusFulfilled = "FULFILLED"
)

// ProductOrder is a retail order shipped from a shop.
type ProductOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	ShopID          uint      `gorm:"not null;index" json:"shop_id"`
	Shop            Shop      `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	PaymentIntentID string    `gorm:"type:varchar(191);not null;index" json:"payment_intent_id"`
	Amount          int64     `gorm:"not null" json:"amount"`
	Status          string    `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	StockReserved   bool      `gorm:"default:true" json:"stock_reserved"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// InStoreOrder is an order picked up and paid in a physical store. Its fee
// split is carried per line because lines can override the shop default.
type InStoreOrder struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	UserID          uint                 `gorm:"not null;index" json:"user_id"`
	ShopID          uint                 `gorm:"not null;index" json:"shop_id"`
	Shop            Shop                 `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	PaymentIntentID string               `gorm:"type:varchar(191);not null;index" json:"payment_intent_id"`
	Amount          int64                `gorm:"not null" json:"amount"`
	Status          string               `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	Details         []InStoreOrderDetail `gorm:"foreignKey:InStoreOrderID" json:"details,omitempty"`
	CreatedAt       time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

// InStoreOrderDetail is one line of an in-store order. PlatformFeePercent
// and TransferAmount are fixed at order time; when PlatformFeePercent
// deviates from the shop default the stored TransferAmount wins over the
// recomputed default.
type InStoreOrderDetail struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	InStoreOrderID     uint      `gorm:"not null;index" json:"in_store_order_id"`
	ProductName        string    `gorm:"type:varchar(191);not null" json:"product_name"`
	Amount             int64     `gorm:"not null" json:"amount"`
	PlatformFeePercent float64   `gorm:"not null" json:"platform_fee_percent"`
	TransferAmount     int64     `gorm:"not null" json:"transfer_amount"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ExperienceOrder books tickets for a hosted experience. Tickets stay locked
// until the charge settles or fails.
type ExperienceOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	ShopID          uint      `gorm:"not null;index" json:"shop_id"`
	Shop            Shop      `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	PaymentIntentID string    `gorm:"type:varchar(191);not null;index" json:"payment_intent_id"`
	Amount          int64     `gorm:"not null" json:"amount"`
	TicketCount     int       `gorm:"not null;default:1" json:"ticket_count"`
	TicketsLocked   bool      `gorm:"default:true" json:"tickets_locked"`
	Status          string    `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
