package order

import (
	"github.com/commerceos/backend/internal/domain/shared"
)

// Event types for the order aggregate
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCreated, "Order", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
	}
}

// OrderStatusChangedEvent is raised when an order changes status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderStatusChanged, "Order", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}
