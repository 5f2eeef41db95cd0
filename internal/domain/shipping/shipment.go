package shipping

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shared/valueobject"
)

// Shipment is the aggregate for one physical delivery attempt of one order.
// Pickup and delivery addresses are immutable snapshots taken at creation
// time; later edits to the order's address never affect an in-flight
// shipment. Status changes only through TransitionTo.
type Shipment struct {
	shared.TenantAggregateRoot
	ShipmentNumber string              `gorm:"size:50;not null;index" json:"shipment_number"`
	OrderID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"order_id"`
	OrderNumber    string              `gorm:"size:50;not null" json:"order_number"`
	CourierType    courier.CourierType `gorm:"size:30;not null" json:"courier_type"`
	CourierName    string              `gorm:"size:100" json:"courier_name,omitempty"`

	ExternalOrderID    string `gorm:"size:100;index" json:"external_order_id,omitempty"`
	ExternalShipmentID string `gorm:"size:100" json:"external_shipment_id,omitempty"`
	AWBNumber          string `gorm:"size:100;index" json:"awb_number,omitempty"`
	LabelURL           string `gorm:"size:512" json:"label_url,omitempty"`
	TrackingURL        string `gorm:"size:512" json:"tracking_url,omitempty"`

	Status ShipmentStatus `gorm:"size:30;not null;default:'CREATED';index" json:"status"`

	PickupAddress   valueobject.ContactAddress `gorm:"type:jsonb" json:"pickup_address"`
	DeliveryAddress valueobject.ContactAddress `gorm:"type:jsonb" json:"delivery_address"`
	Dimensions      valueobject.Dimensions     `gorm:"type:jsonb" json:"dimensions,omitempty"`

	IsCOD        bool              `gorm:"not null;default:false" json:"is_cod"`
	CODAmount    valueobject.Money `gorm:"type:decimal(12,2)" json:"cod_amount"`
	ShippingCost valueobject.Money `gorm:"type:decimal(12,2)" json:"shipping_cost"`

	PickedUpAt           *time.Time     `json:"picked_up_at,omitempty"`
	DeliveredAt          *time.Time     `json:"delivered_at,omitempty"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date,omitempty"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	Items          []ShipmentItem  `gorm:"foreignKey:ShipmentID" json:"items"`
	TrackingEvents []TrackingEvent `gorm:"foreignKey:ShipmentID" json:"tracking_events"`
}

// TableName specifies the database table name
func (Shipment) TableName() string {
	return "shipments"
}

// ShipmentItem is one order line included in a shipment
type ShipmentItem struct {
	shared.BaseEntity
	ShipmentID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"shipment_id"`
	OrderItemID *uuid.UUID `gorm:"type:uuid" json:"order_item_id,omitempty"`
	Sku         string     `gorm:"size:100;not null" json:"sku"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Quantity    int        `gorm:"not null" json:"quantity"`
}

// TableName specifies the database table name
func (ShipmentItem) TableName() string {
	return "shipment_items"
}

// TrackingEvent is one append-only entry in a shipment's delivery history
type TrackingEvent struct {
	shared.BaseEntity
	ShipmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"shipment_id"`
	Status     ShipmentStatus `gorm:"size:30;not null" json:"status"`
	Location   string         `gorm:"size:255" json:"location,omitempty"`
	Remarks    string         `gorm:"size:512" json:"remarks,omitempty"`
	EventTime  time.Time      `gorm:"not null;index" json:"event_time"`
}

// TableName specifies the database table name
func (TrackingEvent) TableName() string {
	return "shipment_tracking_events"
}

// NewShipment builds an in-memory shipment in Created status. Addresses and
// items are snapshotted here; the caller persists only after the carrier
// booking succeeds.
func NewShipment(
	tenantID uuid.UUID,
	shipmentNumber string,
	o OrderRef,
	courierType courier.CourierType,
	pickup, delivery valueobject.ContactAddress,
) (*Shipment, error) {
	if shipmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "shipment number cannot be empty")
	}
	if o.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "order id cannot be empty")
	}
	if !courierType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unsupported courier type: "+string(courierType))
	}
	if pickup.IsEmpty() || delivery.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_INPUT", "pickup and delivery addresses are required")
	}

	s := &Shipment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ShipmentNumber:      shipmentNumber,
		OrderID:             o.ID,
		OrderNumber:         o.OrderNumber,
		CourierType:         courierType,
		Status:              StatusCreated,
		PickupAddress:       pickup,
		DeliveryAddress:     delivery,
		IsCOD:               o.IsCOD,
		CODAmount:           o.CODAmount,
	}
	s.TrackingEvents = append(s.TrackingEvents, TrackingEvent{
		BaseEntity: shared.NewBaseEntity(),
		ShipmentID: s.ID,
		Status:     StatusCreated,
		Remarks:    "Shipment created",
		EventTime:  time.Now(),
	})
	s.AddDomainEvent(NewShipmentCreatedEvent(s))
	return s, nil
}

// OrderRef is the order data a shipment snapshots at creation
type OrderRef struct {
	ID          uuid.UUID
	OrderNumber string
	IsCOD       bool
	CODAmount   valueobject.Money
}

// SetDimensions records the package dimensions
func (s *Shipment) SetDimensions(d valueobject.Dimensions) {
	s.Dimensions = d
	s.MarkUpdated()
}

// AddItem appends a line item to the shipment
func (s *Shipment) AddItem(orderItemID *uuid.UUID, sku, name string, quantity int) {
	s.Items = append(s.Items, ShipmentItem{
		BaseEntity:  shared.NewBaseEntity(),
		ShipmentID:  s.ID,
		OrderItemID: orderItemID,
		Sku:         sku,
		Name:        name,
		Quantity:    quantity,
	})
}

// ApplyBookingResult stamps the carrier's booking response onto the shipment.
// Called before the first persist, after a successful external booking.
func (s *Shipment) ApplyBookingResult(result *courier.CreateShipmentResult) {
	s.ExternalOrderID = result.ExternalOrderID
	s.ExternalShipmentID = result.ExternalShipmentID
	if result.AWBNumber != "" {
		s.AWBNumber = result.AWBNumber
		s.CourierName = result.CourierName
		s.LabelURL = result.LabelURL
		s.TrackingURL = result.TrackingURL
	}
	s.MarkUpdated()
}

// HasExternalRef returns true once the carrier has acknowledged the booking
func (s *Shipment) HasExternalRef() bool {
	return s.ExternalShipmentID != "" || s.ExternalOrderID != ""
}

// HasAWB returns true once an AWB is bound to the shipment
func (s *Shipment) HasAWB() bool {
	return s.AWBNumber != ""
}

// AssignAWB binds an AWB to the shipment. It is one-shot: once an AWB is
// set it is never silently overwritten, reassignment is a separate flow.
func (s *Shipment) AssignAWB(awbNumber, courierName, labelURL, trackingURL string) error {
	if awbNumber == "" {
		return shared.NewDomainError("INVALID_INPUT", "awb number cannot be empty")
	}
	if s.HasAWB() {
		return shared.NewDomainError("AWB_ALREADY_ASSIGNED",
			"shipment "+s.ShipmentNumber+" already has AWB "+s.AWBNumber)
	}
	if s.Status != StatusCreated {
		return shared.NewDomainError("INVALID_STATE",
			"AWB can only be assigned while the shipment is in CREATED status")
	}
	s.AWBNumber = awbNumber
	s.CourierName = courierName
	s.LabelURL = labelURL
	s.TrackingURL = trackingURL
	s.MarkUpdated()
	s.AddDomainEvent(NewAWBAssignedEvent(s))
	return nil
}

// TransitionTo moves the shipment to newStatus, appending one tracking
// event. Re-applying the current status is a no-op because carrier webhooks
// redeliver; any edge outside the transition table is rejected and the
// shipment is left unchanged.
func (s *Shipment) TransitionTo(newStatus ShipmentStatus, location, remarks string) error {
	if !newStatus.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "unknown shipment status: "+string(newStatus))
	}
	if s.Status == newStatus {
		return nil
	}
	if !s.Status.CanTransitionTo(newStatus) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"cannot transition shipment from "+string(s.Status)+" to "+string(newStatus))
	}

	from := s.Status
	s.Status = newStatus
	now := time.Now()
	switch newStatus {
	case StatusPickedUp:
		s.PickedUpAt = &now
	case StatusDelivered:
		s.DeliveredAt = &now
	}
	s.TrackingEvents = append(s.TrackingEvents, TrackingEvent{
		BaseEntity: shared.NewBaseEntity(),
		ShipmentID: s.ID,
		Status:     newStatus,
		Location:   location,
		Remarks:    remarks,
		EventTime:  now,
	})
	s.MarkUpdated()
	s.AddDomainEvent(NewShipmentStatusChangedEvent(s, from, newStatus))
	return nil
}

// Cancel transitions the shipment to Cancelled
func (s *Shipment) Cancel(remarks string) error {
	return s.TransitionTo(StatusCancelled, "", remarks)
}

// IsActive returns true while the shipment blocks new shipments for its order
func (s *Shipment) IsActive() bool {
	return !s.Status.IsTerminal()
}
