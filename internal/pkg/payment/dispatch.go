package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for the per-kind fulfillment queues
	FulfillmentQueuePrefix = "fulfillment:"

	// Tasks expire if no fulfillment worker picks them up
	FulfillmentTaskTTL = 24 * time.Hour
)

// FulfillmentTask tells the downstream order-fulfillment consumer that a
// charge settled. One task is pushed per successful payment intent, onto the
// queue of the order kind it belongs to.
type FulfillmentTask struct {
	ID              string    `json:"id"`
	OrderKind       string    `json:"order_kind"`
	PaymentIntentID string    `json:"payment_intent_id"`
	TransactionIDs  []uint    `json:"transaction_ids"`
	EnqueuedAt      time.Time `json:"enqueued_at"`
}

// FulfillmentDispatcher hands settled payments to the downstream
// fulfillment consumers.
type FulfillmentDispatcher interface {
	Dispatch(ctx context.Context, orderKind, paymentIntentID string, transactionIDs []uint) error
}

// Dispatcher fans successful payments out to the fulfillment consumers over
// Redis lists, one list per order kind.
type Dispatcher struct {
	client *redis.Client
}

// NewDispatcher creates a dispatcher on the given Redis client.
func NewDispatcher(client *redis.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// QueueKey returns the Redis list key for an order kind.
func QueueKey(orderKind string) string {
	return FulfillmentQueuePrefix + orderKind
}

// Dispatch pushes one task onto the queue for its order kind.
func (d *Dispatcher) Dispatch(ctx context.Context, orderKind, paymentIntentID string, transactionIDs []uint) error {
	task := FulfillmentTask{
		ID:              uuid.New().String(),
		OrderKind:       orderKind,
		PaymentIntentID: paymentIntentID,
		TransactionIDs:  transactionIDs,
		EnqueuedAt:      time.Now(),
	}

	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	key := QueueKey(orderKind)
	if err := d.client.LPush(ctx, key, data).Err(); err != nil {
		return err
	}
	d.client.Expire(ctx, key, FulfillmentTaskTTL)

	log.Infof("[Payment] Dispatched fulfillment task %s for intent %s (%s)", task.ID, paymentIntentID, orderKind)
	return nil
}
