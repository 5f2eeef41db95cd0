package shipping

import (
	"github.com/commerceos/backend/internal/domain/shared"
)

// Event types for the shipment aggregate
const (
	EventShipmentCreated       = "shipment.created"
	EventShipmentStatusChanged = "shipment.status_changed"
	EventAWBAssigned           = "shipment.awb_assigned"
)

// ShipmentCreatedEvent is raised when a shipment is created
type ShipmentCreatedEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string `json:"shipment_number"`
	OrderNumber    string `json:"order_number"`
	CourierType    string `json:"courier_type"`
}

// NewShipmentCreatedEvent creates a new ShipmentCreatedEvent
func NewShipmentCreatedEvent(s *Shipment) *ShipmentCreatedEvent {
	return &ShipmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventShipmentCreated, "Shipment", s.ID, s.TenantID),
		ShipmentNumber:  s.ShipmentNumber,
		OrderNumber:     s.OrderNumber,
		CourierType:     string(s.CourierType),
	}
}

// ShipmentStatusChangedEvent is raised on every valid status transition
type ShipmentStatusChangedEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string         `json:"shipment_number"`
	FromStatus     ShipmentStatus `json:"from_status"`
	ToStatus       ShipmentStatus `json:"to_status"`
}

// NewShipmentStatusChangedEvent creates a new ShipmentStatusChangedEvent
func NewShipmentStatusChangedEvent(s *Shipment, from, to ShipmentStatus) *ShipmentStatusChangedEvent {
	return &ShipmentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventShipmentStatusChanged, "Shipment", s.ID, s.TenantID),
		ShipmentNumber:  s.ShipmentNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// AWBAssignedEvent is raised when an AWB is bound to a shipment
type AWBAssignedEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string `json:"shipment_number"`
	AWBNumber      string `json:"awb_number"`
	CourierName    string `json:"courier_name"`
}

// NewAWBAssignedEvent creates a new AWBAssignedEvent
func NewAWBAssignedEvent(s *Shipment) *AWBAssignedEvent {
	return &AWBAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventAWBAssigned, "Shipment", s.ID, s.TenantID),
		ShipmentNumber:  s.ShipmentNumber,
		AWBNumber:       s.AWBNumber,
		CourierName:     s.CourierName,
	}
}
