package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/shipping"
)

// AddressRequest carries a contact+address in API requests
type AddressRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email,omitempty" binding:"omitempty,email"`
	AddressLine string `json:"address_line" binding:"required"`
	Landmark    string `json:"landmark,omitempty"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Pincode     string `json:"pincode" binding:"required,pincode"`
}

// DimensionsRequest carries package dimensions in API requests
type DimensionsRequest struct {
	WeightKg float64 `json:"weight_kg" binding:"required,gt=0"`
	LengthCm float64 `json:"length_cm" binding:"required,gt=0"`
	WidthCm  float64 `json:"width_cm" binding:"required,gt=0"`
	HeightCm float64 `json:"height_cm" binding:"required,gt=0"`
}

// CreateShipmentItemRequest selects one order line for the shipment
type CreateShipmentItemRequest struct {
	OrderItemID *uuid.UUID `json:"order_item_id,omitempty"`
	Sku         string     `json:"sku" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Quantity    int        `json:"quantity" binding:"required,gt=0"`
}

// CreateShipmentRequest is the booking request. Exactly one of
// CourierAccountID (preferred, supplies pickup settings) or CourierType
// must identify the carrier.
type CreateShipmentRequest struct {
	OrderID          uuid.UUID                   `json:"order_id" binding:"required"`
	CourierAccountID *uuid.UUID                  `json:"courier_account_id,omitempty"`
	CourierType      string                      `json:"courier_type,omitempty"`
	PickupOverride   *AddressRequest             `json:"pickup_override,omitempty"`
	Dimensions       *DimensionsRequest          `json:"dimensions,omitempty"`
	Items            []CreateShipmentItemRequest `json:"items,omitempty"`
}

// UpdateStatusRequest applies one delivery-status transition
type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location,omitempty"`
	Remarks  string `json:"remarks,omitempty"`
}

// AssignCourierRequest picks a specific courier for AWB assignment.
// An empty CourierID lets the carrier auto-pick.
type AssignCourierRequest struct {
	CourierID string `json:"courier_id,omitempty"`
}

// TrackingWebhookRequest is the payload pushed by carrier tracking webhooks
type TrackingWebhookRequest struct {
	AWBNumber string `json:"awb_number" binding:"required"`
	Status    string `json:"status" binding:"required"`
	Location  string `json:"location,omitempty"`
	Remarks   string `json:"remarks,omitempty"`
}

// AddressResponse is the contact+address shape in responses
type AddressResponse struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	AddressLine string `json:"address_line"`
	Landmark    string `json:"landmark,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// DimensionsResponse is the package dimensions shape in responses
type DimensionsResponse struct {
	WeightKg float64 `json:"weight_kg"`
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// ShipmentItemResponse is one shipment line in responses
type ShipmentItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	OrderItemID *uuid.UUID `json:"order_item_id,omitempty"`
	Sku         string     `json:"sku"`
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity"`
}

// TrackingEventResponse is one tracking history entry in responses
type TrackingEventResponse struct {
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Remarks   string    `json:"remarks,omitempty"`
	EventTime time.Time `json:"event_time"`
}

// ShipmentDetailResponse is the full shipment view returned by the service.
// Warning is set on partial booking success, when the order was booked with
// the carrier but no AWB could be assigned automatically.
type ShipmentDetailResponse struct {
	ID                   uuid.UUID               `json:"id"`
	OrderID              uuid.UUID               `json:"order_id"`
	OrderNumber          string                  `json:"order_number"`
	ShipmentNumber       string                  `json:"shipment_number"`
	AWBNumber            string                  `json:"awb_number,omitempty"`
	CourierType          string                  `json:"courier_type"`
	CourierName          string                  `json:"courier_name,omitempty"`
	Status               string                  `json:"status"`
	PickupAddress        AddressResponse         `json:"pickup_address"`
	DeliveryAddress      AddressResponse         `json:"delivery_address"`
	Dimensions           *DimensionsResponse     `json:"dimensions,omitempty"`
	ShippingCost         *decimal.Decimal        `json:"shipping_cost,omitempty"`
	CODAmount            *decimal.Decimal        `json:"cod_amount,omitempty"`
	IsCOD                bool                    `json:"is_cod"`
	PickedUpAt           *time.Time              `json:"picked_up_at,omitempty"`
	DeliveredAt          *time.Time              `json:"delivered_at,omitempty"`
	ExpectedDeliveryDate *time.Time              `json:"expected_delivery_date,omitempty"`
	LabelURL             string                  `json:"label_url,omitempty"`
	TrackingURL          string                  `json:"tracking_url,omitempty"`
	Items                []ShipmentItemResponse  `json:"items"`
	TrackingHistory      []TrackingEventResponse `json:"tracking_history"`
	Warning              string                  `json:"warning,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// CourierQuoteResponse is one serviceability quote in responses
type CourierQuoteResponse struct {
	CourierID     string          `json:"courier_id"`
	CourierName   string          `json:"courier_name"`
	FreightCharge decimal.Decimal `json:"freight_charge"`
	CODCharges    decimal.Decimal `json:"cod_charges"`
	TotalCharge   decimal.Decimal `json:"total_charge"`
	EstimatedDays string          `json:"estimated_days,omitempty"`
	Rating        float64         `json:"rating,omitempty"`
	IsSurface     bool            `json:"is_surface"`
	IsRecommended bool            `json:"is_recommended"`
}

// ListShipmentsRequest filters the shipment list
type ListShipmentsRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	OrderID  string `form:"order_id"`
	Search   string `form:"search"`
}

func addressResponse(a addressSource) AddressResponse {
	return AddressResponse{
		Name:        a.Name(),
		Phone:       a.Phone(),
		Email:       a.Email(),
		AddressLine: a.AddressLine(),
		Landmark:    a.Landmark(),
		City:        a.City(),
		State:       a.State(),
		Pincode:     a.Pincode(),
	}
}

type addressSource interface {
	Name() string
	Phone() string
	Email() string
	AddressLine() string
	Landmark() string
	City() string
	State() string
	Pincode() string
}

// ToShipmentDetailResponse maps a shipment aggregate to its response shape.
// Tracking history is returned newest first.
func ToShipmentDetailResponse(s *shipping.Shipment) *ShipmentDetailResponse {
	resp := &ShipmentDetailResponse{
		ID:                   s.ID,
		OrderID:              s.OrderID,
		OrderNumber:          s.OrderNumber,
		ShipmentNumber:       s.ShipmentNumber,
		AWBNumber:            s.AWBNumber,
		CourierType:          string(s.CourierType),
		CourierName:          s.CourierName,
		Status:               string(s.Status),
		PickupAddress:        addressResponse(s.PickupAddress),
		DeliveryAddress:      addressResponse(s.DeliveryAddress),
		IsCOD:                s.IsCOD,
		PickedUpAt:           s.PickedUpAt,
		DeliveredAt:          s.DeliveredAt,
		ExpectedDeliveryDate: s.ExpectedDeliveryDate,
		LabelURL:             s.LabelURL,
		TrackingURL:          s.TrackingURL,
		Items:                make([]ShipmentItemResponse, 0, len(s.Items)),
		TrackingHistory:      make([]TrackingEventResponse, 0, len(s.TrackingEvents)),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if !s.Dimensions.IsZero() {
		resp.Dimensions = &DimensionsResponse{
			WeightKg: s.Dimensions.WeightKg(),
			LengthCm: s.Dimensions.LengthCm(),
			WidthCm:  s.Dimensions.WidthCm(),
			HeightCm: s.Dimensions.HeightCm(),
		}
	}
	if !s.ShippingCost.IsZero() {
		cost := s.ShippingCost.Amount()
		resp.ShippingCost = &cost
	}
	if s.IsCOD {
		cod := s.CODAmount.Amount()
		resp.CODAmount = &cod
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, ShipmentItemResponse{
			ID:          item.ID,
			OrderItemID: item.OrderItemID,
			Sku:         item.Sku,
			Name:        item.Name,
			Quantity:    item.Quantity,
		})
	}
	for i := len(s.TrackingEvents) - 1; i >= 0; i-- {
		ev := s.TrackingEvents[i]
		resp.TrackingHistory = append(resp.TrackingHistory, TrackingEventResponse{
			Status:    string(ev.Status),
			Location:  ev.Location,
			Remarks:   ev.Remarks,
			EventTime: ev.EventTime,
		})
	}
	return resp
}

// ToCourierQuoteResponses maps provider quotes to their response shape
func ToCourierQuoteResponses(quotes []courier.Quote) []CourierQuoteResponse {
	out := make([]CourierQuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, CourierQuoteResponse{
			CourierID:     q.CourierID,
			CourierName:   q.CourierName,
			FreightCharge: q.FreightCharge,
			CODCharges:    q.CODCharges,
			TotalCharge:   q.TotalCharge(),
			EstimatedDays: q.EstimatedDays,
			Rating:        q.Rating,
			IsSurface:     q.IsSurface,
			IsRecommended: q.IsRecommended,
		})
	}
	return out
}
