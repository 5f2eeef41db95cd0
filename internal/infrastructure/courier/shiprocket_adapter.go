package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/commerceos/backend/internal/domain/courier"
)

// maxResponseSize is the maximum allowed response size from carrier APIs (10MB)
const maxResponseSize = 10 * 1024 * 1024

const shiprocketTrackingURL = "https://shiprocket.co/tracking/"

// shiprocketTokenTTL is how long a login token is reused before re-login.
// Shiprocket tokens are valid for 10 days; refreshing daily keeps a margin.
const shiprocketTokenTTL = 24 * time.Hour

// ShiprocketConfig configures the Shiprocket adapter
type ShiprocketConfig struct {
	BaseURL string
	Timeout time.Duration
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// ShiprocketAdapter implements courier.Provider for the Shiprocket aggregator.
// Auth is a login token obtained from email/password credentials; tokens are
// cached per account email.
type ShiprocketAdapter struct {
	config     ShiprocketConfig
	httpClient *http.Client

	tokens map[string]cachedToken
	mu     sync.Mutex
}

// NewShiprocketAdapter creates a new Shiprocket adapter
func NewShiprocketAdapter(config ShiprocketConfig) *ShiprocketAdapter {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &ShiprocketAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		tokens:     make(map[string]cachedToken),
	}
}

// Type returns the courier type this adapter serves
func (a *ShiprocketAdapter) Type() courier.CourierType {
	return courier.CourierTypeShiprocket
}

// ValidateCredentials performs a login against the Shiprocket API
func (a *ShiprocketAdapter) ValidateCredentials(ctx context.Context, creds courier.Credentials) error {
	_, err := a.login(ctx, creds)
	return err
}

// CreateShipment books an adhoc order with Shiprocket and then attempts
// automatic courier assignment. A booked order whose AWB assignment fails is
// reported as a partial success, never as an error.
func (a *ShiprocketAdapter) CreateShipment(ctx context.Context, creds courier.Credentials, req courier.CreateShipmentRequest) (*courier.CreateShipmentResult, error) {
	token, err := a.token(ctx, creds)
	if err != nil {
		return nil, err
	}

	paymentMethod := "Prepaid"
	if req.IsCOD {
		paymentMethod = "COD"
	}
	body := shiprocketCreateOrderRequest{
		OrderID:           req.OrderNumber,
		OrderDate:         time.Now().Format("2006-01-02 15:04"),
		PickupLocation:    req.PickupLocation,
		BillingCustomer:   req.Delivery.Name,
		BillingAddress:    req.Delivery.Address,
		BillingCity:       req.Delivery.City,
		BillingPincode:    req.Delivery.Pincode,
		BillingState:      req.Delivery.State,
		BillingCountry:    "India",
		BillingEmail:      req.Delivery.Email,
		BillingPhone:      req.Delivery.Phone,
		ShippingIsBilling: true,
		PaymentMethod:     paymentMethod,
		SubTotal:          req.DeclaredValue.StringFixed(2),
		Length:            req.LengthCm,
		Breadth:           req.WidthCm,
		Height:            req.HeightCm,
		Weight:            req.WeightKg,
	}
	for _, item := range req.Items {
		body.OrderItems = append(body.OrderItems, shiprocketOrderItem{
			Name:         item.Name,
			Sku:          item.Sku,
			Units:        item.Quantity,
			SellingPrice: item.UnitPrice.StringFixed(2),
		})
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/orders/create/adhoc", token, body)
	if err != nil {
		return nil, err
	}

	var resp shiprocketCreateOrderResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", courier.ErrCarrierInvalidResponse, err)
	}
	if resp.OrderID == 0 {
		return nil, fmt.Errorf("%w: %s", courier.ErrCarrierRequestFailed, resp.Message)
	}

	result := &courier.CreateShipmentResult{
		ExternalOrderID:    strconv.FormatInt(resp.OrderID, 10),
		ExternalShipmentID: strconv.FormatInt(resp.ShipmentID, 10),
	}

	awb, awbErr := a.GenerateAWB(ctx, creds, result.ExternalShipmentID, "")
	if awbErr != nil {
		result.IsPartialSuccess = true
		result.AWBError = awbErr.Error()
		return result, nil
	}
	result.AWBNumber = awb.AWBNumber
	result.CourierName = awb.CourierName
	result.LabelURL = awb.LabelURL
	result.TrackingURL = awb.TrackingURL
	return result, nil
}

// CheckServiceability fetches courier quotes for a pickup/delivery pincode pair
func (a *ShiprocketAdapter) CheckServiceability(ctx context.Context, creds courier.Credentials, req courier.ServiceabilityRequest) ([]courier.Quote, error) {
	token, err := a.token(ctx, creds)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("pickup_postcode", req.PickupPincode)
	query.Set("delivery_postcode", req.DeliveryPincode)
	query.Set("weight", strconv.FormatFloat(req.WeightKg, 'f', 2, 64))
	cod := "0"
	if req.IsCOD {
		cod = "1"
	}
	query.Set("cod", cod)
	if req.ExternalOrderID != "" {
		query.Set("order_id", req.ExternalOrderID)
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/courier/serviceability/?"+query.Encode(), token, nil)
	if err != nil {
		return nil, err
	}

	var resp shiprocketServiceabilityResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", courier.ErrCarrierInvalidResponse, err)
	}

	quotes := make([]courier.Quote, 0, len(resp.Data.AvailableCourierCompanies))
	for _, company := range resp.Data.AvailableCourierCompanies {
		quotes = append(quotes, courier.Quote{
			CourierID:     strconv.Itoa(company.CourierCompanyID),
			CourierName:   company.CourierName,
			FreightCharge: decimalFromFloat(company.FreightCharge),
			CODCharges:    decimalFromFloat(company.CODCharges),
			EstimatedDays: company.EstimatedDays,
			Rating:        company.Rating,
			IsSurface:     company.IsSurface,
			IsRecommended: company.CourierCompanyID == resp.Data.RecommendedCourierCompanyID,
		})
	}
	return quotes, nil
}

// GenerateAWB assigns an AWB to a booked shipment. An empty courierID lets
// Shiprocket auto-pick the carrier.
func (a *ShiprocketAdapter) GenerateAWB(ctx context.Context, creds courier.Credentials, externalShipmentID, courierID string) (*courier.AWBResult, error) {
	token, err := a.token(ctx, creds)
	if err != nil {
		return nil, err
	}

	body := shiprocketAssignAWBRequest{
		ShipmentID: externalShipmentID,
		CourierID:  courierID,
	}
	respBody, err := a.doRequest(ctx, http.MethodPost, "/courier/assign/awb", token, body)
	if err != nil {
		return nil, err
	}

	var resp shiprocketAssignAWBResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", courier.ErrCarrierInvalidResponse, err)
	}
	if resp.AWBAssignStatus != 1 || resp.Response.Data.AWBCode == "" {
		return nil, fmt.Errorf("%w: awb assignment failed: %s", courier.ErrCarrierRequestFailed, resp.Message)
	}

	return &courier.AWBResult{
		AWBNumber:   resp.Response.Data.AWBCode,
		CourierName: resp.Response.Data.CourierName,
		LabelURL:    resp.Response.Data.LabelURL,
		TrackingURL: shiprocketTrackingURL + resp.Response.Data.AWBCode,
	}, nil
}

// token returns a cached login token for the credentials, logging in when the
// cache is cold or expired. A credentials Token field bypasses login entirely.
func (a *ShiprocketAdapter) token(ctx context.Context, creds courier.Credentials) (string, error) {
	if creds.Token != "" {
		return creds.Token, nil
	}

	a.mu.Lock()
	cached, ok := a.tokens[creds.Email]
	a.mu.Unlock()
	if ok && time.Now().Before(cached.expiresAt) {
		return cached.token, nil
	}

	return a.login(ctx, creds)
}

// login authenticates with email/password and caches the returned token
func (a *ShiprocketAdapter) login(ctx context.Context, creds courier.Credentials) (string, error) {
	if creds.Email == "" || creds.Password == "" {
		return "", fmt.Errorf("%w: email and password are required", courier.ErrInvalidCredentials)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/auth/login", "", shiprocketLoginRequest{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return "", err
	}

	var resp shiprocketLoginResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", courier.ErrCarrierInvalidResponse, err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: %s", courier.ErrInvalidCredentials, resp.Message)
	}

	a.mu.Lock()
	a.tokens[creds.Email] = cachedToken{token: resp.Token, expiresAt: time.Now().Add(shiprocketTokenTTL)}
	a.mu.Unlock()

	return resp.Token, nil
}

// doRequest performs an HTTP request against the Shiprocket API
func (a *ShiprocketAdapter) doRequest(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("shiprocket: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("shiprocket: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", courier.ErrCarrierUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shiprocket: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: HTTP %d", courier.ErrInvalidCredentials, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", courier.ErrCarrierRequestFailed, resp.StatusCode, truncate(respBody, 200))
	}

	return respBody, nil
}

// Ensure ShiprocketAdapter implements courier.Provider
var _ courier.Provider = (*ShiprocketAdapter)(nil)
