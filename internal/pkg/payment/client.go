package payment

import (
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// ProviderClient is the outbound surface of the payment provider consumed by
// the pipeline. Every call is a single bounded request; retries belong to
// the provider's webhook redelivery, not to the callers here.
type ProviderClient interface {
	GetAccount(accountID string) (*stripe.Account, error)
	CreateAccount(params *stripe.AccountParams) (*stripe.Account, error)
	UpdateAccount(accountID string, params *stripe.AccountParams) (*stripe.Account, error)
	GetPaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error)
	GetPayout(payoutID string) (*stripe.Payout, error)
	GetBalanceTransaction(balanceTransactionID string) (*stripe.BalanceTransaction, error)
	CreateTransfer(params *stripe.TransferParams) (*stripe.Transfer, error)
	CreateRefund(params *stripe.RefundParams) (*stripe.Refund, error)
	CreateFeeRefund(params *stripe.FeeRefundParams) (*stripe.FeeRefund, error)
	ListPaymentMethods(customerID string) ([]*stripe.PaymentMethod, error)
	AttachPaymentMethod(paymentMethodID, customerID string) (*stripe.PaymentMethod, error)
	DetachPaymentMethod(paymentMethodID string) (*stripe.PaymentMethod, error)
	SetDefaultPaymentMethod(customerID, paymentMethodID string) error
}

// stripeClient implements ProviderClient on the official SDK.
type stripeClient struct {
	api *client.API
}

// NewStripeClient creates a provider client authenticated with the given
// secret API key.
func NewStripeClient(apiKey string) ProviderClient {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &stripeClient{api: api}
}

func (c *stripeClient) GetAccount(accountID string) (*stripe.Account, error) {
	return c.api.Accounts.GetByID(accountID, nil)
}

func (c *stripeClient) CreateAccount(params *stripe.AccountParams) (*stripe.Account, error) {
	return c.api.Accounts.New(params)
}

func (c *stripeClient) UpdateAccount(accountID string, params *stripe.AccountParams) (*stripe.Account, error) {
	return c.api.Accounts.Update(accountID, params)
}

func (c *stripeClient) GetPaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error) {
	return c.api.PaymentIntents.Get(paymentIntentID, nil)
}

func (c *stripeClient) GetPayout(payoutID string) (*stripe.Payout, error) {
	return c.api.Payouts.Get(payoutID, nil)
}

func (c *stripeClient) GetBalanceTransaction(balanceTransactionID string) (*stripe.BalanceTransaction, error) {
	return c.api.BalanceTransactions.Get(balanceTransactionID, nil)
}

func (c *stripeClient) CreateTransfer(params *stripe.TransferParams) (*stripe.Transfer, error) {
	return c.api.Transfers.New(params)
}

func (c *stripeClient) CreateRefund(params *stripe.RefundParams) (*stripe.Refund, error) {
	return c.api.Refunds.New(params)
}

func (c *stripeClient) CreateFeeRefund(params *stripe.FeeRefundParams) (*stripe.FeeRefund, error) {
	return c.api.FeeRefunds.New(params)
}

func (c *stripeClient) ListPaymentMethods(customerID string) ([]*stripe.PaymentMethod, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String("card"),
	}
	iter := c.api.PaymentMethods.List(params)

	var methods []*stripe.PaymentMethod
	for iter.Next() {
		methods = append(methods, iter.PaymentMethod())
	}
	return methods, iter.Err()
}

func (c *stripeClient) AttachPaymentMethod(paymentMethodID, customerID string) (*stripe.PaymentMethod, error) {
	return c.api.PaymentMethods.Attach(paymentMethodID, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	})
}

func (c *stripeClient) DetachPaymentMethod(paymentMethodID string) (*stripe.PaymentMethod, error) {
	return c.api.PaymentMethods.Detach(paymentMethodID, nil)
}

func (c *stripeClient) SetDefaultPaymentMethod(customerID, paymentMethodID string) error {
	_, err := c.api.Customers.Update(customerID, &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	})
	return err
}
