package courier

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// CourierType identifies a supported courier aggregator
type CourierType string

const (
	CourierTypeShiprocket CourierType = "SHIPROCKET"
	CourierTypeDelhivery  CourierType = "DELHIVERY"
)

// IsValid returns true for known courier types
func (t CourierType) IsValid() bool {
	switch t {
	case CourierTypeShiprocket, CourierTypeDelhivery:
		return true
	}
	return false
}

// Credentials holds courier API credentials decoded from an account
type Credentials struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	Token    string `json:"token,omitempty"`
}

// ContactPoint is the pickup/delivery contact shape sent to carriers
type ContactPoint struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// RequestItem is one shipment line sent to the carrier
type RequestItem struct {
	Sku       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateShipmentRequest is the full booking request passed to a provider
type CreateShipmentRequest struct {
	OrderID        string
	OrderNumber    string
	Pickup         ContactPoint
	Delivery       ContactPoint
	WeightKg       float64
	LengthCm       float64
	WidthCm        float64
	HeightCm       float64
	IsCOD          bool
	CODAmount      decimal.Decimal
	DeclaredValue  decimal.Decimal
	ServiceCode    string
	PickupLocation string
	Items          []RequestItem
}

// CreateShipmentResult is the provider's booking response. A result with
// ExternalOrderID set but IsPartialSuccess true means the order was booked
// but automatic courier/AWB assignment failed; AWBError carries the reason.
type CreateShipmentResult struct {
	ExternalOrderID    string
	ExternalShipmentID string
	AWBNumber          string
	CourierName        string
	LabelURL           string
	TrackingURL        string
	IsPartialSuccess   bool
	AWBError           string
}

// Quote is one serviceability option returned by a provider
type Quote struct {
	CourierID     string          `json:"courier_id"`
	CourierName   string          `json:"courier_name"`
	FreightCharge decimal.Decimal `json:"freight_charge"`
	CODCharges    decimal.Decimal `json:"cod_charges"`
	EstimatedDays string          `json:"estimated_days"`
	Rating        float64         `json:"rating"`
	IsSurface     bool            `json:"is_surface"`
	IsRecommended bool            `json:"is_recommended"`
}

// TotalCharge returns freight plus COD charges
func (q Quote) TotalCharge() decimal.Decimal {
	return q.FreightCharge.Add(q.CODCharges)
}

// ServiceabilityRequest is the quote request passed to a provider
type ServiceabilityRequest struct {
	PickupPincode   string
	DeliveryPincode string
	WeightKg        float64
	IsCOD           bool
	ExternalOrderID string
}

// AWBResult is the provider's AWB assignment response
type AWBResult struct {
	AWBNumber   string
	CourierName string
	LabelURL    string
	TrackingURL string
}

// Provider is the port every courier integration implements. Implementations
// live in infrastructure and must not touch persistence.
type Provider interface {
	// Type returns the courier type this provider serves
	Type() CourierType
	// ValidateCredentials checks the credentials against the carrier API
	ValidateCredentials(ctx context.Context, creds Credentials) error
	// CreateShipment books a shipment with the carrier
	CreateShipment(ctx context.Context, creds Credentials, req CreateShipmentRequest) (*CreateShipmentResult, error)
	// CheckServiceability returns available courier quotes for a route
	CheckServiceability(ctx context.Context, creds Credentials, req ServiceabilityRequest) ([]Quote, error)
	// GenerateAWB assigns an AWB to an already-booked shipment. courierID
	// may be empty, in which case the carrier auto-picks.
	GenerateAWB(ctx context.Context, creds Credentials, externalShipmentID, courierID string) (*AWBResult, error)
}

// Registry resolves providers by courier type
type Registry interface {
	Get(courierType CourierType) (Provider, error)
	Types() []CourierType
}

// SortQuotes orders quotes for presentation: recommended options first,
// ties broken by ascending total charge. Sorting is stable so equal quotes
// keep the carrier's original order.
func SortQuotes(quotes []Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].IsRecommended != quotes[j].IsRecommended {
			return quotes[i].IsRecommended
		}
		return quotes[i].TotalCharge().LessThan(quotes[j].TotalCharge())
	})
}
