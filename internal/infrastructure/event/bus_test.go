package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shipping"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panic    bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panic {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func newTestEvent(eventType string) shared.DomainEvent {
	return &shipping.ShipmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Shipment", uuid.New(), uuid.New()),
		ShipmentNumber:  "SHP-2026-00001",
	}
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{shipping.EventShipmentCreated}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent(shipping.EventShipmentCreated))
	require.NoError(t, err)
	require.Len(t, handler.received, 1)
	assert.Equal(t, shipping.EventShipmentCreated, handler.received[0].EventType())
}

func TestInMemoryEventBus_TypeFiltering(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{shipping.EventAWBAssigned}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent(shipping.EventShipmentCreated))
	require.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_HandlerFailureIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{shipping.EventShipmentCreated}, fail: true}
	healthy := &recordingHandler{types: []string{shipping.EventShipmentCreated}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent(shipping.EventShipmentCreated))
	require.NoError(t, err)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_PanicRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(&recordingHandler{types: []string{shipping.EventShipmentCreated}, panic: true})

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent(shipping.EventShipmentCreated))
	})
}
