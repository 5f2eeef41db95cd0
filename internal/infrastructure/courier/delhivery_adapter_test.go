package courier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerceos/backend/internal/domain/courier"
)

func newDelhiveryServer(t *testing.T, handlers map[string]http.HandlerFunc) *DelhiveryAdapter {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewDelhiveryAdapter(DelhiveryConfig{BaseURL: server.URL})
}

func delhiveryCreds() courier.Credentials {
	return courier.Credentials{APIKey: "key-1"}
}

func pincodeResponse(pin, cod, prepaid string) delhiveryPincodeResponse {
	var resp delhiveryPincodeResponse
	resp.DeliveryCodes = []delhiveryPincodeEntry{
		{PostalCode: delhiveryPostalCode{Pin: pin, COD: cod, Prepaid: prepaid}},
	}
	return resp
}

func TestDelhiveryAdapter_ValidateCredentials(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/c/api/pin-codes/json/": func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Token key-1", r.Header.Get("Authorization"))
				json.NewEncoder(w).Encode(pincodeResponse("110001", "Y", "Y"))
			},
		})
		assert.NoError(t, adapter.ValidateCredentials(context.Background(), delhiveryCreds()))
	})

	t.Run("rejected key", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/c/api/pin-codes/json/": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		})
		err := adapter.ValidateCredentials(context.Background(), delhiveryCreds())
		assert.ErrorIs(t, err, courier.ErrInvalidCredentials)
	})

	t.Run("missing key", func(t *testing.T) {
		adapter := newDelhiveryServer(t, nil)
		err := adapter.ValidateCredentials(context.Background(), courier.Credentials{})
		assert.ErrorIs(t, err, courier.ErrInvalidCredentials)
	})
}

func TestDelhiveryAdapter_CreateShipment(t *testing.T) {
	bookingRequest := courier.CreateShipmentRequest{
		OrderNumber: "ORD-1001",
		Pickup: courier.ContactPoint{
			Name: "Warehouse A", Phone: "9876543210", Address: "12 MG Road",
			City: "Bengaluru", State: "Karnataka", Pincode: "560001",
		},
		Delivery: courier.ContactPoint{
			Name: "Asha Patel", Phone: "9123456789", Address: "4 Lodhi Road",
			City: "Delhi", State: "Delhi", Pincode: "110001",
		},
		WeightKg:       0.5,
		IsCOD:          true,
		CODAmount:      decimal.NewFromInt(499),
		DeclaredValue:  decimal.NewFromInt(499),
		PickupLocation: "warehouse-a",
	}

	t.Run("waybill assigned at creation is full success", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/api/cmu/create.json": func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				data := r.PostFormValue("data")
				require.NotEmpty(t, data)

				var req delhiveryCreateRequest
				require.NoError(t, json.Unmarshal([]byte(data), &req))
				require.Len(t, req.Shipments, 1)
				assert.Equal(t, "ORD-1001", req.Shipments[0].OrderID)
				assert.Equal(t, "COD", req.Shipments[0].PaymentMode)
				assert.Equal(t, "500", req.Shipments[0].Weight)

				json.NewEncoder(w).Encode(delhiveryCreateResponse{
					Success: true,
					Packages: []delhiveryPackage{
						{Waybill: "WB9001", RefNum: "ORD-1001", Status: "Success"},
					},
				})
			},
		})

		result, err := adapter.CreateShipment(context.Background(), delhiveryCreds(), bookingRequest)
		require.NoError(t, err)
		assert.Equal(t, "WB9001", result.ExternalShipmentID)
		assert.Equal(t, "WB9001", result.AWBNumber)
		assert.Equal(t, "Delhivery", result.CourierName)
		assert.False(t, result.IsPartialSuccess)
	})

	t.Run("failed package is an error", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/api/cmu/create.json": func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(delhiveryCreateResponse{
					Packages: []delhiveryPackage{
						{Status: "Fail", Remarks: []string{"pincode not serviceable"}},
					},
				})
			},
		})

		_, err := adapter.CreateShipment(context.Background(), delhiveryCreds(), bookingRequest)
		require.ErrorIs(t, err, courier.ErrCarrierRequestFailed)
		assert.Contains(t, err.Error(), "pincode not serviceable")
	})

	t.Run("empty package list is an error", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/api/cmu/create.json": func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(delhiveryCreateResponse{RMK: "malformed data"})
			},
		})

		_, err := adapter.CreateShipment(context.Background(), delhiveryCreds(), bookingRequest)
		assert.ErrorIs(t, err, courier.ErrCarrierRequestFailed)
	})
}

func TestDelhiveryAdapter_CheckServiceability(t *testing.T) {
	t.Run("serviceable cod pincode yields one quote", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/c/api/pin-codes/json/": func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "110001", r.URL.Query().Get("filter_codes"))
				json.NewEncoder(w).Encode(pincodeResponse("110001", "Y", "Y"))
			},
		})

		quotes, err := adapter.CheckServiceability(context.Background(), delhiveryCreds(), courier.ServiceabilityRequest{
			PickupPincode: "560001", DeliveryPincode: "110001", WeightKg: 1.2, IsCOD: true,
		})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, "Delhivery Surface", quotes[0].CourierName)
		assert.True(t, quotes[0].IsSurface)
		assert.True(t, quotes[0].FreightCharge.IsPositive())
	})

	t.Run("cod not supported filters the quote", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/c/api/pin-codes/json/": func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(pincodeResponse("110001", "N", "Y"))
			},
		})

		quotes, err := adapter.CheckServiceability(context.Background(), delhiveryCreds(), courier.ServiceabilityRequest{
			PickupPincode: "560001", DeliveryPincode: "110001", WeightKg: 0.5, IsCOD: true,
		})
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("unknown pincode yields empty list", func(t *testing.T) {
		adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
			"/c/api/pin-codes/json/": func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(delhiveryPincodeResponse{})
			},
		})

		quotes, err := adapter.CheckServiceability(context.Background(), delhiveryCreds(), courier.ServiceabilityRequest{
			PickupPincode: "560001", DeliveryPincode: "999999", WeightKg: 0.5,
		})
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})
}

func TestDelhiveryAdapter_GenerateAWB(t *testing.T) {
	adapter := newDelhiveryServer(t, map[string]http.HandlerFunc{
		"/waybill/api/bulk/json/": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("count"))
			w.Write([]byte(`"WB7777"`))
		},
	})

	result, err := adapter.GenerateAWB(context.Background(), delhiveryCreds(), "WB-any", "")
	require.NoError(t, err)
	assert.Equal(t, "WB7777", result.AWBNumber)
	assert.Contains(t, result.TrackingURL, "WB7777")
}

func TestEstimateDelhiveryFreight(t *testing.T) {
	tests := []struct {
		weightKg float64
		want     int64
	}{
		{0.3, 35},
		{0.5, 35},
		{0.6, 65},
		{1.0, 65},
		{1.2, 95},
	}
	for _, tt := range tests {
		got := estimateDelhiveryFreight(tt.weightKg)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "weight %.1f: got %s", tt.weightKg, got)
	}
}

func TestProviderRegistry(t *testing.T) {
	shiprocket := NewShiprocketAdapter(ShiprocketConfig{BaseURL: "http://localhost"})
	delhivery := NewDelhiveryAdapter(DelhiveryConfig{BaseURL: "http://localhost"})
	registry := NewProviderRegistry(shiprocket, delhivery)

	t.Run("resolves by type", func(t *testing.T) {
		p, err := registry.Get(courier.CourierTypeShiprocket)
		require.NoError(t, err)
		assert.Equal(t, courier.CourierTypeShiprocket, p.Type())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := registry.Get(courier.CourierType("UNKNOWN"))
		assert.ErrorIs(t, err, courier.ErrProviderNotRegistered)
	})

	t.Run("lists registered types", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]courier.CourierType{courier.CourierTypeShiprocket, courier.CourierTypeDelhivery},
			registry.Types())
	})
}
