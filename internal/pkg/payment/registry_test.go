package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

func newTestDeps() *Deps {
	orders, _, _, _ := newFakeOrderServices()
	return NewDeps(newFakeRepos(), &fakeProviderClient{}, Config{ProcessorFeePercent: 3.6}, orders, &fakeDispatcher{})
}

func testEvent(eventType stripe.EventType, payload string) *stripe.Event {
	return &stripe.Event{
		ID:   "evt_test",
		Type: eventType,
		Data: &stripe.EventData{Raw: json.RawMessage(payload)},
	}
}

func TestRegistryMemoizesHandlers(t *testing.T) {
	registry := NewRegistry(newTestDeps())

	first, err := registry.HandlerFor("payment_intent.succeeded")
	require.NoError(t, err)
	second, err := registry.HandlerFor("payment_intent.succeeded")
	require.NoError(t, err)

	assert.Same(t, first, second, "handlers must be built once per event type")
}

func TestRegistryUnknownEventType(t *testing.T) {
	registry := NewRegistry(newTestDeps())

	_, err := registry.HandlerFor("invoice.paid")
	require.Error(t, err)

	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestRegistryCoversPipelineEventTypes(t *testing.T) {
	registry := NewRegistry(newTestDeps())

	for eventType := range defaultHandlerFactories() {
		handler, err := registry.HandlerFor(eventType)
		require.NoError(t, err, "event type %s", eventType)
		require.NotNil(t, handler)
	}
}

// stubHandler returns a fixed error so the processor's classification can be
// exercised without a real handler graph.
type stubHandler struct {
	err   error
	calls int
}

func (h *stubHandler) Handle(ctx context.Context, event *stripe.Event, tx *gorm.DB) error {
	h.calls++
	return h.err
}

func registryWithStub(eventType stripe.EventType, stub *stubHandler) *Registry {
	return &Registry{
		deps: newTestDeps(),
		factories: map[stripe.EventType]func(*Deps) Handler{
			eventType: func(*Deps) Handler { return stub },
		},
		handlers: make(map[stripe.EventType]Handler),
	}
}

func TestProcessorDropsUnknownEvent(t *testing.T) {
	processor := NewProcessor("whsec_test", NewRegistry(newTestDeps()))

	err := processor.Process(context.Background(), testEvent("invoice.paid", `{}`), nil)
	assert.NoError(t, err, "unmapped event types are acknowledged, not retried")
}

func TestProcessorSwallowsUnprocessableErrors(t *testing.T) {
	stub := &stubHandler{err: fiber.NewError(fiber.StatusUnprocessableEntity, "bad payload")}
	processor := NewProcessor("whsec_test", registryWithStub("charge.succeeded", stub))

	err := processor.Process(context.Background(), testEvent("charge.succeeded", `{}`), nil)
	assert.NoError(t, err, "4xx-class handler failures must not request a retry")
	assert.Equal(t, 1, stub.calls)
}

func TestProcessorPropagatesRetryableErrors(t *testing.T) {
	t.Run("unclassified error", func(t *testing.T) {
		stub := &stubHandler{err: errors.New("connection reset")}
		processor := NewProcessor("whsec_test", registryWithStub("charge.succeeded", stub))

		err := processor.Process(context.Background(), testEvent("charge.succeeded", `{}`), nil)
		assert.Error(t, err)
	})

	t.Run("5xx-class error", func(t *testing.T) {
		stub := &stubHandler{err: fiber.NewError(fiber.StatusInternalServerError, "db down")}
		processor := NewProcessor("whsec_test", registryWithStub("charge.succeeded", stub))

		err := processor.Process(context.Background(), testEvent("charge.succeeded", `{}`), nil)
		assert.Error(t, err)
	})
}

func TestVerifyEventRejectsBadSignature(t *testing.T) {
	processor := NewProcessor("whsec_test", NewRegistry(newTestDeps()))

	_, err := processor.VerifyEvent([]byte(`{"id":"evt_1"}`), "t=1,v1=deadbeef")
	require.Error(t, err)

	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}
