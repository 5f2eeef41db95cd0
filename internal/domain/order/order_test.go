package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shared/valueobject"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	addr, err := valueobject.NewContactAddress("Asha Verma", "9876543210", "14 MG Road", "Bengaluru", "Karnataka", "560001")
	require.NoError(t, err)
	o, err := NewOrder(uuid.New(), "SO-2026-00001", "Asha Verma", valueobject.NewMoneyINRFromFloat(500), addr)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, 1, o.GetVersion())
	assert.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventOrderCreated, o.GetDomainEvents()[0].EventType())
}

func TestNewOrder_Validation(t *testing.T) {
	addr, err := valueobject.NewContactAddress("A", "9876543210", "line", "city", "state", "560001")
	require.NoError(t, err)

	_, err = NewOrder(uuid.New(), "", "Asha", valueobject.ZeroINR(), addr)
	assert.Error(t, err)
	_, err = NewOrder(uuid.New(), "SO-2026-00001", "", valueobject.ZeroINR(), addr)
	assert.Error(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusRTO, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusRTO, true},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusRTO, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
	assert.Equal(t, OrderStatusConfirmed, o.Status)
	assert.NotNil(t, o.ConfirmedAt)

	require.NoError(t, o.UpdateStatus(OrderStatusShipped))
	assert.NotNil(t, o.ShippedAt)

	require.NoError(t, o.UpdateStatus(OrderStatusDelivered))
	assert.NotNil(t, o.DeliveredAt)
}

func TestOrderUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
	eventsBefore := len(o.GetDomainEvents())

	require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
	assert.Len(t, o.GetDomainEvents(), eventsBefore)
}

func TestOrderUpdateStatus_InvalidTransition(t *testing.T) {
	o := newTestOrder(t)
	err := o.UpdateStatus(OrderStatusDelivered)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	assert.Equal(t, OrderStatusPending, o.Status)
}

func TestOrderCanShip(t *testing.T) {
	o := newTestOrder(t)
	assert.True(t, o.CanShip())

	require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
	assert.True(t, o.CanShip())

	require.NoError(t, o.UpdateStatus(OrderStatusCancelled))
	assert.False(t, o.CanShip())
}

func TestOrderFindItem(t *testing.T) {
	o := newTestOrder(t)
	item := OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		Sku:        "SKU-1",
		Name:       "Widget",
		Quantity:   2,
		UnitPrice:  valueobject.NewMoneyINRFromFloat(250),
	}
	o.Items = append(o.Items, item)

	found := o.FindItem(item.ID)
	require.NotNil(t, found)
	assert.Equal(t, "SKU-1", found.Sku)
	assert.Nil(t, o.FindItem(uuid.New()))
}
