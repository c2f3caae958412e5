package payment

import (
	"context"
	"strconv"
	"sync"

	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/mizuki-dev/GiftMarche/app/repository"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// In-memory fakes for the repository and provider surfaces. WithTx returns
// the receiver: the fakes have no transaction semantics, they only need to
// observe the same calls a GORM-backed repository would receive.

type fakeTransactionRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   []*models.PaymentTransaction
}

func (f *fakeTransactionRepo) WithTx(tx *gorm.DB) repository.PaymentTransactionRepository {
	return f
}

func (f *fakeTransactionRepo) Create(txn *models.PaymentTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.PaymentIntentID == txn.PaymentIntentID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	txn.ID = f.nextID
	clone := *txn
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeTransactionRepo) GetByPaymentIntentID(paymentIntentID string) (*models.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.PaymentIntentID == paymentIntentID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTransactionRepo) ListByPaymentIntentID(paymentIntentID string) ([]models.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PaymentTransaction
	for _, row := range f.rows {
		if row.PaymentIntentID == paymentIntentID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) Update(txn *models.PaymentTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.rows {
		if row.ID == txn.ID {
			clone := *txn
			f.rows[i] = &clone
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTransactionRepo) UpdateFields(id uint, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "status":
				row.Status = v.(string)
			case "charge_id":
				row.ChargeID = v.(string)
			case "transfer_id":
				row.TransferID = v.(string)
			case "fee_id":
				row.FeeID = v.(string)
			case "receipt_url":
				row.ReceiptURL = v.(string)
			case "error_detail":
				row.ErrorDetail = v.(string)
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

type fakeTransferRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   []*models.PaymentTransfer
}

func (f *fakeTransferRepo) WithTx(tx *gorm.DB) repository.PaymentTransferRepository {
	return f
}

func (f *fakeTransferRepo) Create(transfer *models.PaymentTransfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	transfer.ID = f.nextID
	clone := *transfer
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeTransferRepo) GetByOrder(orderKind string, orderID uint, transactionID uint) (*models.PaymentTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.OrderKind == orderKind && row.OrderID == orderID && row.PaymentTransactionID == transactionID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTransferRepo) GetByProviderTransferID(providerTransferID string) (*models.PaymentTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ProviderTransferID == providerTransferID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTransferRepo) ListByTransactionID(transactionID uint) ([]models.PaymentTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PaymentTransfer
	for _, row := range f.rows {
		if row.PaymentTransactionID == transactionID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeTransferRepo) UpdateStatus(id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePayoutRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   []*models.Payout
}

func (f *fakePayoutRepo) WithTx(tx *gorm.DB) repository.PayoutRepository {
	return f
}

// FirstOrCreate mirrors the GORM implementation: when the provider payout id
// already exists the stored row is loaded back into the argument.
func (f *fakePayoutRepo) FirstOrCreate(payout *models.Payout) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ProviderPayoutID == payout.ProviderPayoutID {
			*payout = *row
			return false, nil
		}
	}
	f.nextID++
	payout.ID = f.nextID
	clone := *payout
	f.rows = append(f.rows, &clone)
	return true, nil
}

func (f *fakePayoutRepo) GetByProviderPayoutID(providerPayoutID string) (*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ProviderPayoutID == providerPayoutID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayoutRepo) UpdateStatus(id uint, status, failureDetail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = status
			row.FailureDetail = failureDetail
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePayoutRepo) all() []models.Payout {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Payout, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out
}

type fakeAccountRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   []*models.StripeAccount
}

func (f *fakeAccountRepo) WithTx(tx *gorm.DB) repository.StripeAccountRepository {
	return f
}

func (f *fakeAccountRepo) Create(account *models.StripeAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	account.ID = f.nextID
	clone := *account
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeAccountRepo) GetByUserID(userID uint) (*models.StripeAccount, error) {
	return f.find(func(r *models.StripeAccount) bool { return r.UserID == userID })
}

func (f *fakeAccountRepo) GetByProviderAccountID(providerAccountID string) (*models.StripeAccount, error) {
	return f.find(func(r *models.StripeAccount) bool { return r.ProviderAccountID == providerAccountID })
}

func (f *fakeAccountRepo) GetByBankAccountID(bankAccountID string) (*models.StripeAccount, error) {
	return f.find(func(r *models.StripeAccount) bool { return r.BankAccountID == bankAccountID })
}

func (f *fakeAccountRepo) find(match func(*models.StripeAccount) bool) (*models.StripeAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if match(row) {
			clone := *row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccountRepo) ListByStatuses(statuses []string) ([]models.StripeAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.StripeAccount
	for _, row := range f.rows {
		for _, s := range statuses {
			if row.Status == s {
				out = append(out, *row)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) UpdateStatus(id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAccountRepo) UpdateBankAccountID(id uint, bankAccountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			row.BankAccountID = bankAccountID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAccountRepo) UpdateStatusBatch(ids []uint, statuses []string) error {
	for i, id := range ids {
		if err := f.UpdateStatus(id, statuses[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAccountRepo) get(id uint) *models.StripeAccount {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			clone := *row
			return &clone
		}
	}
	return nil
}

var (
	_ repository.PaymentTransactionRepository = (*fakeTransactionRepo)(nil)
	_ repository.PaymentTransferRepository    = (*fakeTransferRepo)(nil)
	_ repository.PayoutRepository             = (*fakePayoutRepo)(nil)
	_ repository.StripeAccountRepository      = (*fakeAccountRepo)(nil)
	_ ProviderClient                          = (*fakeProviderClient)(nil)
	_ FulfillmentDispatcher                   = (*fakeDispatcher)(nil)
)

func newFakeRepos() *repository.Repositories {
	return &repository.Repositories{
		PaymentTransaction: &fakeTransactionRepo{},
		PaymentTransfer:    &fakeTransferRepo{},
		Payout:             &fakePayoutRepo{},
		StripeAccount:      &fakeAccountRepo{},
	}
}

// fakeProviderClient records outbound calls. Per-method funcs override the
// default canned responses when a test needs failure injection.
type fakeProviderClient struct {
	mu sync.Mutex

	getAccountFn     func(accountID string) (*stripe.Account, error)
	createTransferFn func(params *stripe.TransferParams) (*stripe.Transfer, error)

	createdAccounts  []*stripe.AccountParams
	createdTransfers []*stripe.TransferParams
	feeRefunds       []*stripe.FeeRefundParams
	defaultMethods   map[string]string
}

func (f *fakeProviderClient) GetAccount(accountID string) (*stripe.Account, error) {
	if f.getAccountFn != nil {
		return f.getAccountFn(accountID)
	}
	return &stripe.Account{ID: accountID}, nil
}

func (f *fakeProviderClient) CreateAccount(params *stripe.AccountParams) (*stripe.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdAccounts = append(f.createdAccounts, params)
	return &stripe.Account{ID: "acct_test_1"}, nil
}

func (f *fakeProviderClient) UpdateAccount(accountID string, params *stripe.AccountParams) (*stripe.Account, error) {
	return &stripe.Account{ID: accountID}, nil
}

func (f *fakeProviderClient) GetPaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error) {
	return &stripe.PaymentIntent{ID: paymentIntentID}, nil
}

func (f *fakeProviderClient) GetPayout(payoutID string) (*stripe.Payout, error) {
	return &stripe.Payout{ID: payoutID}, nil
}

func (f *fakeProviderClient) GetBalanceTransaction(balanceTransactionID string) (*stripe.BalanceTransaction, error) {
	return &stripe.BalanceTransaction{ID: balanceTransactionID}, nil
}

func (f *fakeProviderClient) CreateTransfer(params *stripe.TransferParams) (*stripe.Transfer, error) {
	f.mu.Lock()
	f.createdTransfers = append(f.createdTransfers, params)
	n := len(f.createdTransfers)
	f.mu.Unlock()
	if f.createTransferFn != nil {
		return f.createTransferFn(params)
	}
	return &stripe.Transfer{ID: "tr_test_" + strconv.Itoa(n)}, nil
}

func (f *fakeProviderClient) CreateRefund(params *stripe.RefundParams) (*stripe.Refund, error) {
	return &stripe.Refund{ID: "re_test_1"}, nil
}

func (f *fakeProviderClient) CreateFeeRefund(params *stripe.FeeRefundParams) (*stripe.FeeRefund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeRefunds = append(f.feeRefunds, params)
	return &stripe.FeeRefund{ID: "fr_test_1"}, nil
}

func (f *fakeProviderClient) ListPaymentMethods(customerID string) ([]*stripe.PaymentMethod, error) {
	return nil, nil
}

func (f *fakeProviderClient) AttachPaymentMethod(paymentMethodID, customerID string) (*stripe.PaymentMethod, error) {
	return &stripe.PaymentMethod{ID: paymentMethodID}, nil
}

func (f *fakeProviderClient) DetachPaymentMethod(paymentMethodID string) (*stripe.PaymentMethod, error) {
	return &stripe.PaymentMethod{ID: paymentMethodID}, nil
}

func (f *fakeProviderClient) SetDefaultPaymentMethod(customerID, paymentMethodID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.defaultMethods == nil {
		f.defaultMethods = make(map[string]string)
	}
	f.defaultMethods[customerID] = paymentMethodID
	return nil
}

type fakeProductOrders struct {
	orders     []models.ProductOrder
	feePercent float64
	released   []string
}

func (f *fakeProductOrders) OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.ProductOrder, error) {
	var out []models.ProductOrder
	for _, o := range f.orders {
		if o.PaymentIntentID == paymentIntentID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeProductOrders) ShopFeePercent(tx *gorm.DB, order *models.ProductOrder) (float64, error) {
	return f.feePercent, nil
}

func (f *fakeProductOrders) ReleaseStock(tx *gorm.DB, paymentIntentID string) error {
	f.released = append(f.released, paymentIntentID)
	return nil
}

type fakeInStoreOrders struct {
	orders     []models.InStoreOrder
	feePercent float64
}

func (f *fakeInStoreOrders) OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.InStoreOrder, error) {
	var out []models.InStoreOrder
	for _, o := range f.orders {
		if o.PaymentIntentID == paymentIntentID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeInStoreOrders) ShopFeePercent(tx *gorm.DB, order *models.InStoreOrder) (float64, error) {
	return f.feePercent, nil
}

type fakeExperienceOrders struct {
	orders     []models.ExperienceOrder
	feePercent float64
	released   []string
}

func (f *fakeExperienceOrders) OrdersByPaymentIntent(tx *gorm.DB, paymentIntentID string) ([]models.ExperienceOrder, error) {
	var out []models.ExperienceOrder
	for _, o := range f.orders {
		if o.PaymentIntentID == paymentIntentID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeExperienceOrders) ShopFeePercent(tx *gorm.DB, order *models.ExperienceOrder) (float64, error) {
	return f.feePercent, nil
}

func (f *fakeExperienceOrders) ReleaseTickets(tx *gorm.DB, paymentIntentID string) error {
	f.released = append(f.released, paymentIntentID)
	return nil
}

func newFakeOrderServices() (OrderServices, *fakeProductOrders, *fakeInStoreOrders, *fakeExperienceOrders) {
	fp := &fakeProductOrders{feePercent: 5}
	fi := &fakeInStoreOrders{feePercent: 5}
	fe := &fakeExperienceOrders{feePercent: 5}
	return OrderServices{Product: fp, InStore: fi, Experience: fe}, fp, fi, fe
}

type dispatchedTask struct {
	OrderKind       string
	PaymentIntentID string
	TransactionIDs  []uint
}

type fakeDispatcher struct {
	mu    sync.Mutex
	tasks []dispatchedTask
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, orderKind, paymentIntentID string, transactionIDs []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, dispatchedTask{
		OrderKind:       orderKind,
		PaymentIntentID: paymentIntentID,
		TransactionIDs:  transactionIDs,
	})
	return nil
}
