package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the lifecycle state of a sales order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusRTO       OrderStatus = "RTO"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// CanTransitionTo checks if the status transition is valid
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusRTO
	case OrderStatusDelivered:
		return target == OrderStatusRTO
	case OrderStatusRTO, OrderStatusCancelled:
		return false
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusRTO || s == OrderStatusCancelled
}

// Order is the sales order aggregate. Shipping treats it as a collaborator:
// it reads order data to book couriers and pushes status projections back
// through UpdateStatus, never touching order internals directly.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string                     `gorm:"size:50;not null;index" json:"order_number"`
	CustomerName    string                     `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone   string                     `gorm:"size:32" json:"customer_phone"`
	CustomerEmail   string                     `gorm:"size:255" json:"customer_email"`
	Status          OrderStatus                `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	IsCOD           bool                       `gorm:"not null;default:false" json:"is_cod"`
	TotalAmount     valueobject.Money          `gorm:"type:decimal(12,2)" json:"total_amount"`
	ShippingAddress valueobject.ContactAddress `gorm:"type:jsonb" json:"shipping_address"`
	Channel         string                     `gorm:"size:50" json:"channel"`
	Items           []OrderItem                `gorm:"foreignKey:OrderID" json:"items"`
	ConfirmedAt     *time.Time                 `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time                 `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time                 `json:"delivered_at,omitempty"`
}

// TableName specifies the database table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item on an order
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	Sku       string            `gorm:"size:100;not null" json:"sku"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	Quantity  int               `gorm:"not null" json:"quantity"`
	UnitPrice valueobject.Money `gorm:"type:decimal(12,2)" json:"unit_price"`
}

// TableName specifies the database table name
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates a new order in Pending status
func NewOrder(tenantID uuid.UUID, orderNumber, customerName string, totalAmount valueobject.Money, shippingAddress valueobject.ContactAddress) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "order number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "customer name cannot be empty")
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerName:        customerName,
		Status:              OrderStatusPending,
		TotalAmount:         totalAmount,
		ShippingAddress:     shippingAddress,
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// UpdateStatus transitions the order to the given status, stamping the
// relevant timestamp. Re-applying the current status is a no-op so that
// shipment cascades stay idempotent.
func (o *Order) UpdateStatus(newStatus OrderStatus) error {
	if o.Status == newStatus {
		return nil
	}
	if !o.Status.CanTransitionTo(newStatus) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"cannot transition order from "+string(o.Status)+" to "+string(newStatus))
	}

	from := o.Status
	o.Status = newStatus
	now := time.Now()
	switch newStatus {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	}
	o.MarkUpdated()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, newStatus))
	return nil
}

// CanShip returns true if a shipment may be created for this order
func (o *Order) CanShip() bool {
	return o.Status != OrderStatusCancelled && o.Status != OrderStatusDelivered && o.Status != OrderStatusRTO
}

// FindItem returns the order item with the given id, or nil
func (o *Order) FindItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}
