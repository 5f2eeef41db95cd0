package shipping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shared/valueobject"
)

func testContact(t *testing.T, name string) valueobject.ContactAddress {
	t.Helper()
	addr, err := valueobject.NewContactAddress(name, "9876543210", "14 MG Road", "Bengaluru", "Karnataka", "560001")
	require.NoError(t, err)
	return addr
}

func newTestShipment(t *testing.T) *Shipment {
	t.Helper()
	s, err := NewShipment(
		uuid.New(),
		"SHP-2026-00001",
		OrderRef{
			ID:          uuid.New(),
			OrderNumber: "SO-2026-00001",
			IsCOD:       true,
			CODAmount:   valueobject.NewMoneyINRFromFloat(500),
		},
		courier.CourierTypeShiprocket,
		testContact(t, "Warehouse"),
		testContact(t, "Asha Verma"),
	)
	require.NoError(t, err)
	return s
}

func TestNewShipment(t *testing.T) {
	s := newTestShipment(t)

	assert.Equal(t, StatusCreated, s.Status)
	assert.True(t, s.IsCOD)
	assert.True(t, s.CODAmount.Equals(valueobject.NewMoneyINRFromFloat(500)))
	assert.False(t, s.HasExternalRef())
	assert.False(t, s.HasAWB())
	assert.True(t, s.IsActive())

	require.Len(t, s.TrackingEvents, 1)
	assert.Equal(t, StatusCreated, s.TrackingEvents[0].Status)
}

func TestNewShipment_Validation(t *testing.T) {
	pickup := testContact(t, "Warehouse")
	delivery := testContact(t, "Asha")
	ref := OrderRef{ID: uuid.New(), OrderNumber: "SO-1"}

	_, err := NewShipment(uuid.New(), "", ref, courier.CourierTypeShiprocket, pickup, delivery)
	assert.Error(t, err)

	_, err = NewShipment(uuid.New(), "SHP-1", OrderRef{}, courier.CourierTypeShiprocket, pickup, delivery)
	assert.Error(t, err)

	_, err = NewShipment(uuid.New(), "SHP-1", ref, courier.CourierType("PIGEON"), pickup, delivery)
	assert.Error(t, err)

	_, err = NewShipment(uuid.New(), "SHP-1", ref, courier.CourierTypeShiprocket, valueobject.ContactAddress{}, delivery)
	assert.Error(t, err)
}

func TestApplyBookingResult_FullSuccess(t *testing.T) {
	s := newTestShipment(t)
	s.ApplyBookingResult(&courier.CreateShipmentResult{
		ExternalOrderID:    "X1",
		ExternalShipmentID: "S1",
		AWBNumber:          "AWB123",
		CourierName:        "DTDC",
		LabelURL:           "https://labels.example.com/1",
		TrackingURL:        "https://track.example.com/AWB123",
	})

	assert.True(t, s.HasExternalRef())
	assert.Equal(t, "AWB123", s.AWBNumber)
	assert.Equal(t, "DTDC", s.CourierName)
	assert.Equal(t, StatusCreated, s.Status)
}

func TestApplyBookingResult_PartialSuccess(t *testing.T) {
	s := newTestShipment(t)
	s.ApplyBookingResult(&courier.CreateShipmentResult{
		ExternalOrderID:    "X1",
		ExternalShipmentID: "S1",
		IsPartialSuccess:   true,
		AWBError:           "No couriers serviceable",
	})

	assert.True(t, s.HasExternalRef())
	assert.False(t, s.HasAWB())
	assert.Empty(t, s.CourierName)
}

func TestAssignAWB(t *testing.T) {
	s := newTestShipment(t)
	s.ApplyBookingResult(&courier.CreateShipmentResult{ExternalOrderID: "X1", ExternalShipmentID: "S1", IsPartialSuccess: true})

	require.NoError(t, s.AssignAWB("AWB999", "Delhivery Surface", "https://l", "https://t"))
	assert.Equal(t, "AWB999", s.AWBNumber)
	assert.Equal(t, "Delhivery Surface", s.CourierName)
}

func TestAssignAWB_OneShot(t *testing.T) {
	s := newTestShipment(t)
	require.NoError(t, s.AssignAWB("AWB1", "A", "", ""))

	err := s.AssignAWB("AWB2", "B", "", "")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "AWB_ALREADY_ASSIGNED", domainErr.Code)
	assert.Equal(t, "AWB1", s.AWBNumber)
}

func TestAssignAWB_OnlyInCreated(t *testing.T) {
	s := newTestShipment(t)
	require.NoError(t, s.TransitionTo(StatusManifested, "", ""))

	err := s.AssignAWB("AWB1", "A", "", "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestTransitionTo_AppendsTrackingEvents(t *testing.T) {
	s := newTestShipment(t)
	require.NoError(t, s.TransitionTo(StatusManifested, "", "manifest generated"))
	require.NoError(t, s.TransitionTo(StatusPickedUp, "Bengaluru hub", ""))
	require.NoError(t, s.TransitionTo(StatusInTransit, "Mumbai hub", ""))

	require.Len(t, s.TrackingEvents, 4)
	assert.Equal(t, StatusPickedUp, s.TrackingEvents[2].Status)
	assert.Equal(t, "Bengaluru hub", s.TrackingEvents[2].Location)
	assert.NotNil(t, s.PickedUpAt)
}

func TestTransitionTo_SameStatusIsNoOp(t *testing.T) {
	s := newTestShipment(t)
	require.NoError(t, s.TransitionTo(StatusManifested, "", ""))
	eventsBefore := len(s.TrackingEvents)

	// carrier webhooks redeliver; a duplicate must not error or append
	require.NoError(t, s.TransitionTo(StatusManifested, "", ""))
	assert.Len(t, s.TrackingEvents, eventsBefore)
}

func TestTransitionTo_InvalidEdgeLeavesShipmentUnchanged(t *testing.T) {
	s := newTestShipment(t)
	err := s.TransitionTo(StatusDelivered, "", "")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	assert.Equal(t, StatusCreated, s.Status)
	assert.Len(t, s.TrackingEvents, 1)
}

func TestTransitionTo_UnknownStatus(t *testing.T) {
	s := newTestShipment(t)
	err := s.TransitionTo(ShipmentStatus("TELEPORTED"), "", "")
	assert.Error(t, err)
}

func TestTransitionTo_RedeliveryAttemptSequence(t *testing.T) {
	s := newTestShipment(t)
	for _, step := range []ShipmentStatus{
		StatusManifested, StatusPickedUp, StatusInTransit, StatusOutForDelivery,
	} {
		require.NoError(t, s.TransitionTo(step, "", ""))
	}
	historyBefore := len(s.TrackingEvents)

	require.NoError(t, s.TransitionTo(StatusDeliveryFailed, "", "customer unavailable"))
	require.NoError(t, s.TransitionTo(StatusOutForDelivery, "", "re-attempt"))
	require.NoError(t, s.TransitionTo(StatusDelivered, "", ""))

	assert.Len(t, s.TrackingEvents, historyBefore+3)
	assert.NotNil(t, s.DeliveredAt)
}

func TestCancel(t *testing.T) {
	s := newTestShipment(t)
	require.NoError(t, s.Cancel("customer requested"))
	assert.Equal(t, StatusCancelled, s.Status)
	assert.False(t, s.IsActive())

	// cancel is only reachable before pickup
	picked := newTestShipment(t)
	require.NoError(t, picked.TransitionTo(StatusManifested, "", ""))
	require.NoError(t, picked.TransitionTo(StatusPickedUp, "", ""))
	assert.Error(t, picked.Cancel("too late"))
}

func TestAddItem(t *testing.T) {
	s := newTestShipment(t)
	itemID := uuid.New()
	s.AddItem(&itemID, "SKU-1", "Widget", 2)
	s.AddItem(nil, "SKU-2", "Gadget", 1)

	require.Len(t, s.Items, 2)
	assert.Equal(t, &itemID, s.Items[0].OrderItemID)
	assert.Nil(t, s.Items[1].OrderItemID)
}
