package payment

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/mizuki-dev/GiftMarche/app/repository"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// TransferService creates seller transfers when a charge succeeds. Creation
// is guarded by an existence check per order, so redelivered events never
// duplicate a transfer.
type TransferService struct {
	repos  *repository.Repositories
	orders OrderServices
	client ProviderClient
	cfg    Config
}

// NewTransferService creates a transfer service.
func NewTransferService(repos *repository.Repositories, orders OrderServices, client ProviderClient, cfg Config) *TransferService {
	return &TransferService{repos: repos, orders: orders, client: client, cfg: cfg}
}

// CreateTransfersForCharge computes and persists one transfer per order paid
// by the charge, branching by the transaction's order kind.
func (s *TransferService) CreateTransfersForCharge(tx *gorm.DB, txn *models.PaymentTransaction, charge *stripe.Charge) error {
	switch txn.OrderKind {
	case models.OrderKindProduct:
		return s.createProductTransfers(tx, txn, charge)
	case models.OrderKindInStore:
		return s.createInStoreTransfers(tx, txn, charge)
	case models.OrderKindExperience:
		return s.createExperienceTransfers(tx, txn, charge)
	default:
		return fmt.Errorf("unknown order kind %q for transaction %d", txn.OrderKind, txn.ID)
	}
}

func (s *TransferService) createProductTransfers(tx *gorm.DB, txn *models.PaymentTransaction, charge *stripe.Charge) error {
	orders, err := s.orders.Product.OrdersByPaymentIntent(tx, txn.PaymentIntentID)
	if err != nil {
		return err
	}

	for i := range orders {
		order := &orders[i]
		exists, err := s.transferExists(tx, models.OrderKindProduct, order.ID, txn.ID)
		if err != nil {
			return err
		}
		if exists {
			log.Infof("[Payment] Transfer already exists for product order %d, skipping", order.ID)
			continue
		}

		feePercent, err := s.orders.Product.ShopFeePercent(tx, order)
		if err != nil {
			return err
		}
		split := CalculateTransferFee(order.Amount, feePercent, s.cfg.ProcessorFeePercent)
		if err := s.persistTransfer(tx, txn, charge, models.OrderKindProduct, order.ID, order.Shop.StripeAccountID, split.TransferAmount, split); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransferService) createExperienceTransfers(tx *gorm.DB, txn *models.PaymentTransaction, charge *stripe.Charge) error {
	orders, err := s.orders.Experience.OrdersByPaymentIntent(tx, txn.PaymentIntentID)
	if err != nil {
		return err
	}

	for i := range orders {
		order := &orders[i]
		exists, err := s.transferExists(tx, models.OrderKindExperience, order.ID, txn.ID)
		if err != nil {
			return err
		}
		if exists {
			log.Infof("[Payment] Transfer already exists for experience order %d, skipping", order.ID)
			continue
		}

		feePercent, err := s.orders.Experience.ShopFeePercent(tx, order)
		if err != nil {
			return err
		}
		split := CalculateTransferFee(order.Amount, feePercent, s.cfg.ProcessorFeePercent)
		if err := s.persistTransfer(tx, txn, charge, models.OrderKindExperience, order.ID, order.Shop.StripeAccountID, split.TransferAmount, split); err != nil {
			return err
		}
	}
	return nil
}

// createInStoreTransfers handles the per-line override rule: when any detail
// line carries a fee percent deviating from the shop default, the transfer
// amount becomes the sum of the stored per-line transfer amounts. The
// default split is still recorded on the fee fields for auditing.
func (s *TransferService) createInStoreTransfers(tx *gorm.DB, txn *models.PaymentTransaction, charge *stripe.Charge) error {
	orders, err := s.orders.InStore.OrdersByPaymentIntent(tx, txn.PaymentIntentID)
	if err != nil {
		return err
	}

	for i := range orders {
		order := &orders[i]
		exists, err := s.transferExists(tx, models.OrderKindInStore, order.ID, txn.ID)
		if err != nil {
			return err
		}
		if exists {
			log.Infof("[Payment] Transfer already exists for in-store order %d, skipping", order.ID)
			continue
		}

		shopFeePercent, err := s.orders.InStore.ShopFeePercent(tx, order)
		if err != nil {
			return err
		}
		split := CalculateTransferFee(order.Amount, shopFeePercent, s.cfg.ProcessorFeePercent)

		amount := split.TransferAmount
		if InStoreOverrideAmount(order, shopFeePercent) {
			amount = sumLineTransferAmounts(order.Details)
		}

		if err := s.persistTransfer(tx, txn, charge, models.OrderKindInStore, order.ID, order.Shop.StripeAccountID, amount, split); err != nil {
			return err
		}
	}
	return nil
}

// InStoreOverrideAmount reports whether any line of the order overrides the
// shop's default fee percent.
func InStoreOverrideAmount(order *models.InStoreOrder, shopFeePercent float64) bool {
	for _, d := range order.Details {
		if d.PlatformFeePercent != shopFeePercent {
			return true
		}
	}
	return false
}

func sumLineTransferAmounts(details []models.InStoreOrderDetail) int64 {
	var total int64
	for _, d := range details {
		total += d.TransferAmount
	}
	return total
}

func (s *TransferService) transferExists(tx *gorm.DB, orderKind string, orderID, transactionID uint) (bool, error) {
	_, err := s.repos.WithTx(tx).PaymentTransfer.GetByOrder(orderKind, orderID, transactionID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *TransferService) persistTransfer(tx *gorm.DB, txn *models.PaymentTransaction, charge *stripe.Charge, orderKind string, orderID uint, destination string, amount int64, split FeeSplit) error {
	if destination == "" {
		return fmt.Errorf("no connected account for %s order %d", orderKind, orderID)
	}

	group := string(charge.TransferGroup)
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(txn.Currency),
		Destination: stripe.String(destination),
	}
	if group != "" {
		params.TransferGroup = stripe.String(group)
	}
	if charge.ID != "" {
		params.SourceTransaction = stripe.String(charge.ID)
	}

	providerTransfer, err := s.client.CreateTransfer(params)
	if err != nil {
		return fmt.Errorf("create provider transfer for %s order %d: %w", orderKind, orderID, err)
	}

	record := &models.PaymentTransfer{
		PaymentTransactionID: txn.ID,
		OrderKind:            orderKind,
		OrderID:              orderID,
		StripeAccountID:      destination,
		ProviderTransferID:   providerTransfer.ID,
		TransferGroup:        group,
		Amount:               amount,
		PlatformFee:          split.PlatformFee,
		PlatformFeePercent:   split.PlatformFeePercent,
		Status:               models.TransferStatusCreated,
	}
	if err := s.repos.WithTx(tx).PaymentTransfer.Create(record); err != nil {
		return err
	}

	log.Infof("[Payment] Created transfer %s for %s order %d: amount=%d fee=%d", providerTransfer.ID, orderKind, orderID, amount, split.PlatformFee)
	return nil
}
