package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/commerceos/backend/internal/domain/courier"
)

const delhiveryTrackingURL = "https://www.delhivery.com/track/package/"

// DelhiveryConfig configures the Delhivery adapter
type DelhiveryConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DelhiveryAdapter implements courier.Provider for Delhivery's direct API.
// Auth is a static API key passed as a Token header on every call.
type DelhiveryAdapter struct {
	config     DelhiveryConfig
	httpClient *http.Client
}

// NewDelhiveryAdapter creates a new Delhivery adapter
func NewDelhiveryAdapter(config DelhiveryConfig) *DelhiveryAdapter {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &DelhiveryAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Type returns the courier type this adapter serves
func (a *DelhiveryAdapter) Type() courier.CourierType {
	return courier.CourierTypeDelhivery
}

// ValidateCredentials checks the API key by querying pincode serviceability
// for a known-good pincode. Delhivery has no dedicated auth endpoint.
func (a *DelhiveryAdapter) ValidateCredentials(ctx context.Context, creds courier.Credentials) error {
	if creds.APIKey == "" {
		return fmt.Errorf("%w: api key is required", courier.ErrInvalidCredentials)
	}
	_, err := a.doRequest(ctx, http.MethodGet, "/c/api/pin-codes/json/?filter_codes=110001", creds.APIKey, "")
	return err
}

// CreateShipment books a package with Delhivery. Delhivery assigns the
// waybill during creation, so a successful booking is always a full success.
func (a *DelhiveryAdapter) CreateShipment(ctx context.Context, creds courier.Credentials, req courier.CreateShipmentRequest) (*courier.CreateShipmentResult, error) {
	paymentMode := "Prepaid"
	codAmount := ""
	if req.IsCOD {
		paymentMode = "COD"
		codAmount = req.CODAmount.StringFixed(2)
	}

	shipment := delhiveryShipment{
		Name:          req.Delivery.Name,
		Address:       req.Delivery.Address,
		City:          req.Delivery.City,
		State:         req.Delivery.State,
		Pin:           req.Delivery.Pincode,
		Country:       "India",
		Phone:         req.Delivery.Phone,
		OrderID:       req.OrderNumber,
		PaymentMode:   paymentMode,
		CODAmount:     codAmount,
		TotalAmount:   req.DeclaredValue.StringFixed(2),
		Weight:        strconv.FormatFloat(req.WeightKg*1000, 'f', 0, 64),
		ShipmentWidth: strconv.FormatFloat(req.WidthCm, 'f', 1, 64),
		ShipmentHeight: strconv.FormatFloat(req.HeightCm, 'f', 1, 64),
		ShipmentLength: strconv.FormatFloat(req.LengthCm, 'f', 1, 64),
	}
	payload := delhiveryCreateRequest{
		Shipments: []delhiveryShipment{shipment},
		PickupLocation: delhiveryPickupLocation{
			Name:    req.PickupLocation,
			Address: req.Pickup.Address,
			City:    req.Pickup.City,
			Pin:     req.Pickup.Pincode,
			Phone:   req.Pickup.Phone,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("delhivery: failed to encode request: %w", err)
	}

	form := "format=json&data=" + url.QueryEscape(string(data))
	respBody, err := a.doRequest(ctx, http.MethodPost, "/api/cmu/create.json", creds.APIKey, form)
	if err != nil {
		return nil, err
	}

	var resp delhiveryCreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", courier.ErrCarrierInvalidResponse, err)
	}
	if len(resp.Packages) == 0 {
		return nil, fmt.Errorf("%w: %s", courier.ErrCarrierRequestFailed, resp.RMK)
	}
	pkg := resp.Packages[0]
	if strings.EqualFold(pkg.Status, "Fail") || pkg.Waybill == "" {
		return nil, fmt.Errorf("%w: %s", courier.ErrCarrierRequestFailed, strings.Join(pkg.Remarks, "; "))
	}

	return &courier.CreateShipmentResult{
		ExternalOrderID:    pkg.RefNum,
		ExternalShipmentID: pkg.Waybill,
		AWBNumber:          pkg.Waybill,
		CourierName:        "Delhivery",
		TrackingURL:        delhiveryTrackingURL + pkg.Waybill,
	}, nil
}

// CheckServiceability checks whether the delivery pincode is serviceable and
// returns a single Delhivery quote when it is.
func (a *DelhiveryAdapter) CheckServiceability(ctx context.Context, creds courier.Credentials, req courier.ServiceabilityRequest) ([]courier.Quote, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet,
		"/c/api/pin-codes/json/?filter_codes="+url.QueryEscape(req.DeliveryPincode), creds.APIKey, "")
	if err != nil {
		return nil, err
	}

	var resp delhiveryPincodeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", courier.ErrCarrierInvalidResponse, err)
	}

	quotes := make([]courier.Quote, 0, 1)
	for _, entry := range resp.DeliveryCodes {
		code := entry.PostalCode
		if code.Pin == "" {
			continue
		}
		if req.IsCOD && !strings.EqualFold(code.COD, "Y") {
			continue
		}
		if !req.IsCOD && !strings.EqualFold(code.Prepaid, "Y") {
			continue
		}
		quotes = append(quotes, courier.Quote{
			CourierID:     "delhivery",
			CourierName:   "Delhivery Surface",
			FreightCharge: estimateDelhiveryFreight(req.WeightKg),
			IsSurface:     true,
		})
		break
	}
	return quotes, nil
}

// GenerateAWB fetches a waybill from Delhivery's bulk waybill API. Delhivery
// normally assigns the waybill at creation; this covers bookings that were
// accepted without one.
func (a *DelhiveryAdapter) GenerateAWB(ctx context.Context, creds courier.Credentials, externalShipmentID, courierID string) (*courier.AWBResult, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, "/waybill/api/bulk/json/?count=1", creds.APIKey, "")
	if err != nil {
		return nil, err
	}

	waybill := strings.Trim(strings.TrimSpace(string(respBody)), `"`)
	if waybill == "" {
		return nil, fmt.Errorf("%w: empty waybill response", courier.ErrCarrierInvalidResponse)
	}

	return &courier.AWBResult{
		AWBNumber:   waybill,
		CourierName: "Delhivery",
		TrackingURL: delhiveryTrackingURL + waybill,
	}, nil
}

// doRequest performs an HTTP request against the Delhivery API
func (a *DelhiveryAdapter) doRequest(ctx context.Context, method, path, apiKey, form string) ([]byte, error) {
	var reader io.Reader
	if form != "" {
		reader = strings.NewReader(form)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("delhivery: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Accept", "application/json")
	if form != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", courier.ErrCarrierUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("delhivery: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: HTTP %d", courier.ErrInvalidCredentials, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", courier.ErrCarrierRequestFailed, resp.StatusCode, truncate(respBody, 200))
	}

	return respBody, nil
}

// Ensure DelhiveryAdapter implements courier.Provider
var _ courier.Provider = (*DelhiveryAdapter)(nil)
