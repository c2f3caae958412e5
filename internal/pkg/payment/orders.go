package payment

import (
	"github.com/mizuki-dev/GiftMarche/app/models"
	"gorm.io/gorm"
)

// ProductOrderService is the retail-order collaborator consumed by the
// charge handlers.
type ProductOrderService interface {
	OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.ProductOrder, error)
	ShopFeePercent(tx *gorm.DB, order *models.ProductOrder) (float64, error)
	ReleaseStock(tx *gorm.DB, paymentIntentID string) error
}

// InStoreOrderService is the in-store-order collaborator. Orders are loaded
// with their detail lines because the fee split is carried per line.
type InStoreOrderService interface {
	OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.InStoreOrder, error)
	ShopFeePercent(tx *gorm.DB, order *models.InStoreOrder) (float64, error)
}

// ExperienceOrderService is the bookable-experience collaborator.
type ExperienceOrderService interface {
	OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.ExperienceOrder, error)
	ShopFeePercent(tx *gorm.DB, order *models.ExperienceOrder) (float64, error)
	ReleaseTickets(tx *gorm.DB, paymentIntentID string) error
}

// OrderServices bundles the three per-kind collaborators.
type OrderServices struct {
	Product    ProductOrderService
	InStore    InStoreOrderService
	Experience ExperienceOrderService
}

// NewOrderServices creates GORM-backed order collaborators.
func NewOrderServices(db *gorm.DB) OrderServices {
	return OrderServices{
		Product:    &productOrderService{db: db},
		InStore:    &inStoreOrderService{db: db},
		Experience: &experienceOrderService{db: db},
	}
}

type productOrderService struct {
	db *gorm.DB
}

func (s *productOrderService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *productOrderService) OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.ProductOrder, error) {
	var orders []models.ProductOrder
	err := s.conn(tx).Preload("Shop").Where("payment_intent_id = ?", paymentIntentID).Find(&orders).Error
	return orders, err
}

func (s *productOrderService) ShopFeePercent(tx *gorm.DB, order *models.ProductOrder) (float64, error) {
	if order.Shop.ID != 0 {
		return order.Shop.ProductFeePercent, nil
	}
	var shop models.Shop
	if err := s.conn(tx).First(&shop, order.ShopID).Error; err != nil {
		return 0, err
	}
	return shop.ProductFeePercent, nil
}

// ReleaseStock frees inventory that was reserved for the orders of a failed
// or canceled payment intent.
func (s *productOrderService) ReleaseStock(tx *gorm.DB, paymentIntentID string) error {
	return s.conn(tx).Model(&models.ProductOrder{}).
		Where("payment_intent_id = ? AND stock_reserved = ?", paymentIntentID, true).
		Update("stock_reserved", false).Error
}

type inStoreOrderService struct {
	db *gorm.DB
}

func (s *inStoreOrderService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *inStoreOrderService) OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.InStoreOrder, error) {
	var orders []models.InStoreOrder
	err := s.conn(tx).Preload("Shop").Preload("Details").
		Where("payment_intent_id = ?", paymentIntentID).Find(&orders).Error
	return orders, err
}

func (s *inStoreOrderService) ShopFeePercent(tx *gorm.DB, order *models.InStoreOrder) (float64, error) {
	if order.Shop.ID != 0 {
		return order.Shop.InStoreFeePercent, nil
	}
	var shop models.Shop
	if err := s.conn(tx).First(&shop, order.ShopID).Error; err != nil {
		return 0, err
	}
	return shop.InStoreFeePercent, nil
}

type experienceOrderService struct {
	db *gorm.DB
}

func (s *experienceOrderService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *experienceOrderService) OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.ExperienceOrder, error) {
	var orders []models.ExperienceOrder
	err := s.conn(tx).Preload("Shop").Where("payment_intent_id = ?", paymentIntentID).Find(&orders).Error
	return orders, err
}

func (s *experienceOrderService) ShopFeePercent(tx *gorm.DB, order *models.ExperienceOrder) (float64, error) {
	if order.Shop.ID != 0 {
		return order.Shop.ExperienceFeePercent, nil
	}
	var shop models.Shop
	if err := s.conn(tx).First(&shop, order.ShopID).Error; err != nil {
		return 0, err
	}
	return shop.ExperienceFeePercent, nil
}

// ReleaseTickets frees ticket holds for the orders of a failed or canceled
// payment intent.
func (s *experienceOrderService) ReleaseTickets(tx *gorm.DB, paymentIntentID string) error {
	return s.conn(tx).Model(&models.ExperienceOrder{}).
		Where("payment_intent_id = ? AND tickets_locked = ?", paymentIntentID, true).
		Update("tickets_locked", false).Error
}
