package payment

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/mizuki-dev/GiftMarche/app/repository"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// Handler reacts to one webhook event type. Handlers must be idempotent with
// respect to repeated delivery of the same event: the transport delivers
// at-least-once, possibly out of order.
type Handler interface {
	Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error
}

// Deps bundles the collaborators shared by all handlers. One Deps instance
// backs every handler built by a registry.
type Deps struct {
	Repos        *repository.Repositories
	Client       ProviderClient
	Config       Config
	Orders       OrderServices
	Dispatcher   FulfillmentDispatcher
	Transactions *TransactionService
	Transfers    *TransferService
	Payouts      *PayoutService
	Accounts     *AccountService
}

// NewDeps wires the handler dependency bundle from its leaves.
func NewDeps(repos *repository.Repositories, client ProviderClient, cfg Config, orders OrderServices, dispatcher FulfillmentDispatcher) *Deps {
	return &Deps{
		Repos:        repos,
		Client:       client,
		Config:       cfg,
		Orders:       orders,
		Dispatcher:   dispatcher,
		Transactions: NewTransactionService(repos),
		Transfers:    NewTransferService(repos, orders, client, cfg),
		Payouts:      NewPayoutService(repos),
		Accounts:     NewAccountService(repos, client, cfg),
	}
}

// Registry maps event types to handler singletons. Handlers are built
// lazily via the factory table on first use and memoized, so the handler
// graph is constructed once per event type rather than once per event.
type Registry struct {
	deps      *Deps
	factories map[stripe.EventType]func(*Deps) Handler

	mu       sync.Mutex
	handlers map[stripe.EventType]Handler
}

// NewRegistry creates a registry over the default factory table.
func NewRegistry(deps *Deps) *Registry {
	return &Registry{
		deps:      deps,
		factories: defaultHandlerFactories(),
		handlers:  make(map[stripe.EventType]Handler),
	}
}

// ErrHandlerNotFound marks event types this pipeline does not process. The
// 404 code makes the processor drop the event instead of requesting a retry.
var ErrHandlerNotFound = fiber.NewError(fiber.StatusNotFound, "no handler registered for event type")

// HandlerFor returns the singleton handler for an event type, building it on
// first use.
func (r *Registry) HandlerFor(eventType stripe.EventType) (Handler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handlers[eventType]; ok {
		return h, nil
	}
	factory, ok := r.factories[eventType]
	if !ok {
		return nil, ErrHandlerNotFound
	}
	h := factory(r.deps)
	r.handlers[eventType] = h
	return h, nil
}

// defaultHandlerFactories is the compile-time dispatch table from event type
// to handler constructor.
func defaultHandlerFactories() map[stripe.EventType]func(*Deps) Handler {
	return map[stripe.EventType]func(*Deps) Handler{
		"payment_intent.created":        func(d *Deps) Handler { return &paymentIntentCreatedHandler{deps: d} },
		"payment_intent.processing":     func(d *Deps) Handler { return &paymentIntentProcessingHandler{deps: d} },
		"payment_intent.succeeded":      func(d *Deps) Handler { return &paymentIntentSucceededHandler{deps: d} },
		"payment_intent.payment_failed": func(d *Deps) Handler { return &paymentIntentFailedHandler{deps: d} },
		"payment_intent.canceled":       func(d *Deps) Handler { return &paymentIntentCanceledHandler{deps: d} },

		"charge.succeeded": func(d *Deps) Handler { return &chargeSucceededHandler{deps: d} },
		"charge.failed":    func(d *Deps) Handler { return &chargeFailedHandler{deps: d} },
		"charge.refunded":  func(d *Deps) Handler { return &chargeRefundedHandler{deps: d} },

		"payout.created":  func(d *Deps) Handler { return &payoutLifecycleHandler{deps: d} },
		"payout.updated":  func(d *Deps) Handler { return &payoutLifecycleHandler{deps: d} },
		"payout.paid":     func(d *Deps) Handler { return &payoutLifecycleHandler{deps: d} },
		"payout.failed":   func(d *Deps) Handler { return &payoutLifecycleHandler{deps: d} },
		"payout.canceled": func(d *Deps) Handler { return &payoutLifecycleHandler{deps: d} },

		"transfer.created":  func(d *Deps) Handler { return &transferConfirmedHandler{deps: d} },
		"transfer.updated":  func(d *Deps) Handler { return &transferConfirmedHandler{deps: d} },
		"transfer.reversed": func(d *Deps) Handler { return &transferReversedHandler{deps: d} },

		"account.updated":                  func(d *Deps) Handler { return &accountUpdatedHandler{deps: d} },
		"account.application.deauthorized": func(d *Deps) Handler { return &accountDeauthorizedHandler{deps: d} },

		"payment_method.attached":              func(d *Deps) Handler { return &paymentMethodAttachedHandler{deps: d} },
		"payment_method.detached":              func(d *Deps) Handler { return &paymentMethodDetachedHandler{deps: d} },
		"payment_method.automatically_updated": func(d *Deps) Handler { return &paymentMethodUpdatedHandler{deps: d} },
	}
}
