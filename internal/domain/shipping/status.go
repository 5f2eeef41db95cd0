package shipping

// ShipmentStatus represents the delivery lifecycle state of a shipment
type ShipmentStatus string

const (
	StatusCreated            ShipmentStatus = "CREATED"
	StatusManifested         ShipmentStatus = "MANIFESTED"
	StatusPickedUp           ShipmentStatus = "PICKED_UP"
	StatusInTransit          ShipmentStatus = "IN_TRANSIT"
	StatusReachedDestination ShipmentStatus = "REACHED_DESTINATION"
	StatusOutForDelivery     ShipmentStatus = "OUT_FOR_DELIVERY"
	StatusDelivered          ShipmentStatus = "DELIVERED"
	StatusDeliveryFailed     ShipmentStatus = "DELIVERY_FAILED"
	StatusRTOInitiated       ShipmentStatus = "RTO_INITIATED"
	StatusRTOInTransit       ShipmentStatus = "RTO_IN_TRANSIT"
	StatusRTODelivered       ShipmentStatus = "RTO_DELIVERED"
	StatusCancelled          ShipmentStatus = "CANCELLED"
	StatusLost               ShipmentStatus = "LOST"
)

// AllStatuses lists every shipment status
var AllStatuses = []ShipmentStatus{
	StatusCreated, StatusManifested, StatusPickedUp, StatusInTransit,
	StatusReachedDestination, StatusOutForDelivery, StatusDelivered,
	StatusDeliveryFailed, StatusRTOInitiated, StatusRTOInTransit,
	StatusRTODelivered, StatusCancelled, StatusLost,
}

// IsValid returns true for known statuses
func (s ShipmentStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo checks if the status transition is allowed. The transition
// table is the single source of truth for the delivery lifecycle; there are
// no shortcut edges because SLA and analytics depend on complete intermediate
// history. Any status may move to Lost.
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	if target == StatusLost {
		return s != StatusLost
	}
	switch s {
	case StatusCreated:
		return target == StatusManifested || target == StatusCancelled
	case StatusManifested:
		return target == StatusPickedUp || target == StatusCancelled
	case StatusPickedUp:
		return target == StatusInTransit
	case StatusInTransit:
		return target == StatusReachedDestination || target == StatusOutForDelivery
	case StatusReachedDestination:
		return target == StatusOutForDelivery
	case StatusOutForDelivery:
		return target == StatusDelivered || target == StatusDeliveryFailed
	case StatusDeliveryFailed:
		return target == StatusOutForDelivery || target == StatusRTOInitiated
	case StatusRTOInitiated:
		return target == StatusRTOInTransit
	case StatusRTOInTransit:
		return target == StatusRTODelivered
	default:
		return false
	}
}

// IsTerminal returns true for statuses that free the order for a new
// shipment. Delivered and Lost end the lifecycle but still count as the
// order's shipment of record.
func (s ShipmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRTODelivered
}

// ActiveStatuses returns the statuses that block creation of another
// shipment for the same order.
func ActiveStatuses() []ShipmentStatus {
	active := make([]ShipmentStatus, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		if !s.IsTerminal() {
			active = append(active, s)
		}
	}
	return active
}
