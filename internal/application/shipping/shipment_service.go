package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/order"
	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shared/valueobject"
	"github.com/commerceos/backend/internal/domain/shipping"
)

// defaultWeightKg is used for serviceability checks when no dimensions
// were recorded on the shipment.
const defaultWeightKg = 0.5

// quoteCacheTTL bounds how long serviceability quotes are reused
const quoteCacheTTL = 5 * time.Minute

// QuoteCache caches serviceability quotes per shipment. A miss returns
// ok=false; cache failures are the implementation's concern and must never
// fail the quoting flow.
type QuoteCache interface {
	Get(ctx context.Context, key string) ([]courier.Quote, bool)
	Set(ctx context.Context, key string, quotes []courier.Quote, ttl time.Duration)
}

// ShipmentService orchestrates the shipment lifecycle: booking with the
// carrier, serviceability quoting, AWB assignment and status transitions
// with their order-side cascade.
type ShipmentService struct {
	shipments shipping.Repository
	orders    order.Repository
	accounts  courier.AccountRepository
	providers courier.Registry
	quotes    QuoteCache
	retry     shared.RetryPolicy
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	shipments shipping.Repository,
	orders order.Repository,
	accounts courier.AccountRepository,
	providers courier.Registry,
	quotes QuoteCache,
	retry shared.RetryPolicy,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		orders:    orders,
		accounts:  accounts,
		providers: providers,
		quotes:    quotes,
		retry:     retry,
		logger:    logger,
	}
}

// SetEventPublisher wires the bus the service publishes lifecycle events to
func (s *ShipmentService) SetEventPublisher(events shared.EventPublisher) {
	s.events = events
}

// publishEvents drains the aggregate's pending events onto the bus.
// Publishing is best effort and never fails the write that produced it.
func (s *ShipmentService) publishEvents(ctx context.Context, shipment *shipping.Shipment) {
	events := shipment.GetDomainEvents()
	shipment.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish shipment events", zap.Error(err))
	}
}

// CreateShipment books a shipment with the carrier and persists it. The
// external booking call happens before any database write: a local row with
// no real booking is worse than a booking that cannot yet be found locally,
// and carrier bookings cannot be rolled back once issued.
func (s *ShipmentService) CreateShipment(ctx context.Context, tenantID uuid.UUID, req *CreateShipmentRequest) (*ShipmentDetailResponse, error) {
	o, err := s.orders.FindByIDForTenant(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.CanShip() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("order %s is %s and cannot be shipped", o.OrderNumber, o.Status))
	}

	// duplicate check runs before any external call
	existing, err := s.shipments.FindActiveByOrder(ctx, tenantID, o.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_ACTIVE_SHIPMENT",
			fmt.Sprintf("order %s already has active shipment %s", o.OrderNumber, existing.ShipmentNumber))
	}

	account, err := s.resolveAccount(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	creds, err := account.Credentials()
	if err != nil {
		return nil, err
	}
	settings, err := account.Settings()
	if err != nil {
		return nil, err
	}

	pickup, err := s.resolvePickupAddress(req.PickupOverride, settings)
	if err != nil {
		return nil, err
	}

	shipmentNumber, err := s.shipments.GenerateShipmentNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	shipment, err := shipping.NewShipment(tenantID, shipmentNumber, shipping.OrderRef{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		IsCOD:       o.IsCOD,
		CODAmount:   o.TotalAmount,
	}, account.CourierType, pickup, o.ShippingAddress)
	if err != nil {
		return nil, err
	}

	if req.Dimensions != nil {
		dims, err := valueobject.NewDimensions(req.Dimensions.WeightKg, req.Dimensions.LengthCm, req.Dimensions.WidthCm, req.Dimensions.HeightCm)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		shipment.SetDimensions(dims)
	}
	s.snapshotItems(shipment, o, req.Items)

	provider, err := s.providers.Get(account.CourierType)
	if err != nil {
		return nil, err
	}
	bookingReq := s.buildBookingRequest(o, shipment, settings)

	result, err := provider.CreateShipment(ctx, creds, bookingReq)
	if err != nil {
		s.logger.Warn("carrier booking failed",
			zap.String("order_number", o.OrderNumber),
			zap.String("courier_type", string(account.CourierType)),
			zap.Error(err))
		return nil, shared.NewDomainError("COURIER_FAILURE", err.Error())
	}
	if result.ExternalOrderID == "" {
		return nil, shared.NewDomainError("COURIER_FAILURE", "carrier did not return an order reference")
	}

	shipment.ApplyBookingResult(result)

	// the booking is already live with the carrier; a persistence failure
	// here must carry the external refs for manual reconciliation
	if err := s.shipments.SaveWithLock(ctx, shipment); err != nil {
		s.logger.Error("persistence failed after successful carrier booking",
			zap.String("order_number", o.OrderNumber),
			zap.String("external_order_id", result.ExternalOrderID),
			zap.String("external_shipment_id", result.ExternalShipmentID),
			zap.Error(err))
		return nil, shared.NewDomainError("PERSISTENCE_AFTER_BOOKING",
			fmt.Sprintf("shipment booked with carrier (external order %s, external shipment %s) but could not be saved: %v",
				result.ExternalOrderID, result.ExternalShipmentID, err))
	}

	s.logger.Info("shipment created",
		zap.String("shipment_number", shipment.ShipmentNumber),
		zap.String("order_number", o.OrderNumber),
		zap.String("awb_number", shipment.AWBNumber),
		zap.Bool("partial", result.IsPartialSuccess))
	s.publishEvents(ctx, shipment)

	resp := ToShipmentDetailResponse(shipment)
	if result.IsPartialSuccess {
		warning := "shipment booked but AWB assignment failed; assign a courier manually"
		if result.AWBError != "" {
			warning = "shipment booked but AWB assignment failed: " + result.AWBError
		}
		resp.Warning = warning
	}
	return resp, nil
}

// GetAvailableCouriers returns serviceability quotes for a booked shipment,
// recommended options first, ties broken by ascending total charge.
func (s *ShipmentService) GetAvailableCouriers(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]CourierQuoteResponse, error) {
	shipment, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.Status != shipping.StatusCreated || !shipment.HasExternalRef() {
		return nil, shared.NewDomainError("INVALID_STATE",
			"couriers can only be listed for a booked shipment still in CREATED status")
	}

	cacheKey := fmt.Sprintf("quotes:%s:%s", tenantID, shipmentID)
	if s.quotes != nil {
		if cached, ok := s.quotes.Get(ctx, cacheKey); ok {
			return ToCourierQuoteResponses(cached), nil
		}
	}

	account, err := s.accounts.FindActiveByType(ctx, tenantID, shipment.CourierType)
	if err != nil {
		return nil, err
	}
	if !account.IsUsable() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("courier account for %s is not connected", shipment.CourierType))
	}
	creds, err := account.Credentials()
	if err != nil {
		return nil, err
	}

	weight := defaultWeightKg
	if !shipment.Dimensions.IsZero() {
		weight = shipment.Dimensions.ChargeableWeightKg()
	}

	provider, err := s.providers.Get(shipment.CourierType)
	if err != nil {
		return nil, err
	}
	quotes, err := provider.CheckServiceability(ctx, creds, courier.ServiceabilityRequest{
		PickupPincode:   shipment.PickupAddress.Pincode(),
		DeliveryPincode: shipment.DeliveryAddress.Pincode(),
		WeightKg:        weight,
		IsCOD:           shipment.IsCOD,
		ExternalOrderID: shipment.ExternalOrderID,
	})
	if err != nil {
		return nil, shared.NewDomainError("COURIER_FAILURE", err.Error())
	}
	if len(quotes) == 0 {
		return nil, shared.NewDomainError("ROUTE_NOT_SERVICEABLE",
			fmt.Sprintf("no couriers service the route %s -> %s",
				shipment.PickupAddress.Pincode(), shipment.DeliveryAddress.Pincode()))
	}

	courier.SortQuotes(quotes)
	if s.quotes != nil {
		s.quotes.Set(ctx, cacheKey, quotes, quoteCacheTTL)
	}
	return ToCourierQuoteResponses(quotes), nil
}

// AssignCourier binds an AWB to a booked shipment. The assignment is
// one-shot: a bound AWB is never silently replaced. On carrier failure the
// shipment is left unchanged and assignable again later.
func (s *ShipmentService) AssignCourier(ctx context.Context, tenantID, shipmentID uuid.UUID, req *AssignCourierRequest) (*ShipmentDetailResponse, error) {
	shipment, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.HasAWB() {
		return nil, shared.NewDomainError("AWB_ALREADY_ASSIGNED",
			fmt.Sprintf("shipment %s already has AWB %s", shipment.ShipmentNumber, shipment.AWBNumber))
	}
	if shipment.Status != shipping.StatusCreated || !shipment.HasExternalRef() {
		return nil, shared.NewDomainError("INVALID_STATE",
			"AWB can only be assigned to a booked shipment still in CREATED status")
	}

	account, err := s.accounts.FindActiveByType(ctx, tenantID, shipment.CourierType)
	if err != nil {
		return nil, err
	}
	creds, err := account.Credentials()
	if err != nil {
		return nil, err
	}
	provider, err := s.providers.Get(shipment.CourierType)
	if err != nil {
		return nil, err
	}

	courierID := ""
	if req != nil {
		courierID = req.CourierID
	}
	result, err := provider.GenerateAWB(ctx, creds, shipment.ExternalShipmentID, courierID)
	if err != nil {
		return nil, shared.NewDomainError("COURIER_FAILURE", err.Error())
	}

	if err := shipment.AssignAWB(result.AWBNumber, result.CourierName, result.LabelURL, result.TrackingURL); err != nil {
		return nil, err
	}
	if err := s.shipments.SaveWithLock(ctx, shipment); err != nil {
		return nil, err
	}

	s.logger.Info("awb assigned",
		zap.String("shipment_number", shipment.ShipmentNumber),
		zap.String("awb_number", shipment.AWBNumber),
		zap.String("courier_name", shipment.CourierName))
	s.publishEvents(ctx, shipment)

	return ToShipmentDetailResponse(shipment), nil
}

// UpdateStatus applies one delivery-status transition and cascades the
// projection onto the owning order. The response is always rebuilt from a
// post-write read, never from the pre-write snapshot.
func (s *ShipmentService) UpdateStatus(ctx context.Context, tenantID, shipmentID uuid.UUID, req *UpdateStatusRequest) (*ShipmentDetailResponse, error) {
	newStatus := shipping.ShipmentStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown shipment status: "+req.Status)
	}

	var shipment *shipping.Shipment
	err := shared.RetryOnConflict(ctx, s.retry, func(ctx context.Context) error {
		loaded, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID)
		if err != nil {
			return err
		}
		changed := loaded.Status != newStatus
		if err := loaded.TransitionTo(newStatus, req.Location, req.Remarks); err != nil {
			return err
		}
		if changed {
			if err := s.shipments.SaveWithLock(ctx, loaded); err != nil {
				return err
			}
		}
		shipment = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, shipment)

	if err := s.cascadeOrderStatus(ctx, tenantID, shipment.OrderID, newStatus); err != nil {
		return nil, err
	}

	reread, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	return ToShipmentDetailResponse(reread), nil
}

// UpdateStatusByAWB applies a carrier-webhook status update addressed by AWB
func (s *ShipmentService) UpdateStatusByAWB(ctx context.Context, tenantID uuid.UUID, req *TrackingWebhookRequest) (*ShipmentDetailResponse, error) {
	shipment, err := s.shipments.FindByAWB(ctx, tenantID, req.AWBNumber)
	if err != nil {
		return nil, err
	}
	return s.UpdateStatus(ctx, tenantID, shipment.ID, &UpdateStatusRequest{
		Status:   req.Status,
		Location: req.Location,
		Remarks:  req.Remarks,
	})
}

// Cancel cancels a shipment that has not yet been picked up
func (s *ShipmentService) Cancel(ctx context.Context, tenantID, shipmentID uuid.UUID, remarks string) (*ShipmentDetailResponse, error) {
	return s.UpdateStatus(ctx, tenantID, shipmentID, &UpdateStatusRequest{
		Status:  string(shipping.StatusCancelled),
		Remarks: remarks,
	})
}

// GetShipment returns one shipment by id
func (s *ShipmentService) GetShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (*ShipmentDetailResponse, error) {
	shipment, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	return ToShipmentDetailResponse(shipment), nil
}

// ListShipments returns a page of the tenant's shipments
func (s *ShipmentService) ListShipments(ctx context.Context, tenantID uuid.UUID, req *ListShipmentsRequest) (*shared.Paginated[ShipmentDetailResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 && req.PageSize <= 100 {
		filter.PageSize = req.PageSize
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.OrderID != "" {
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "invalid order id filter")
		}
		filter.Filters["order_id"] = orderID
	}
	filter.Search = req.Search

	shipments, err := s.shipments.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.shipments.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ShipmentDetailResponse, 0, len(shipments))
	for i := range shipments {
		items = append(items, *ToShipmentDetailResponse(&shipments[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// orderProjection maps a shipment status to the order status it cascades
// to. The cascade only ever flows shipment -> order.
func orderProjection(status shipping.ShipmentStatus) (order.OrderStatus, bool) {
	switch status {
	case shipping.StatusPickedUp, shipping.StatusInTransit,
		shipping.StatusReachedDestination, shipping.StatusOutForDelivery:
		return order.OrderStatusShipped, true
	case shipping.StatusDelivered:
		return order.OrderStatusDelivered, true
	case shipping.StatusRTOInitiated, shipping.StatusRTOInTransit, shipping.StatusRTODelivered:
		return order.OrderStatusRTO, true
	default:
		return "", false
	}
}

// cascadeOrderStatus projects the shipment status onto the owning order
// with a conditional write. User actions and carrier webhooks race here, so
// the write is guarded by the order's observed status and retried with
// backoff; exhausting the retries surfaces a concurrency conflict instead
// of silently dropping the cascade.
func (s *ShipmentService) cascadeOrderStatus(ctx context.Context, tenantID, orderID uuid.UUID, shipmentStatus shipping.ShipmentStatus) error {
	target, ok := orderProjection(shipmentStatus)
	if !ok {
		return nil
	}

	return shared.RetryOnConflict(ctx, s.retry, func(ctx context.Context) error {
		o, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if o.Status == target {
			return nil
		}
		if !o.Status.CanTransitionTo(target) {
			// already past the projected state (e.g. Delivered while the
			// webhook still reports Shipped); the cascade is idempotent
			s.logger.Debug("order cascade skipped",
				zap.String("order_id", orderID.String()),
				zap.String("order_status", string(o.Status)),
				zap.String("target", string(target)))
			return nil
		}
		return s.orders.UpdateStatusIf(ctx, tenantID, orderID, []order.OrderStatus{o.Status}, target)
	})
}

func (s *ShipmentService) resolveAccount(ctx context.Context, tenantID uuid.UUID, req *CreateShipmentRequest) (*courier.Account, error) {
	var account *courier.Account
	var err error

	switch {
	case req.CourierAccountID != nil:
		account, err = s.accounts.FindByIDForTenant(ctx, tenantID, *req.CourierAccountID)
	case req.CourierType != "":
		courierType := courier.CourierType(req.CourierType)
		if !courierType.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "unsupported courier type: "+req.CourierType)
		}
		account, err = s.accounts.FindActiveByType(ctx, tenantID, courierType)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "either courier_account_id or courier_type is required")
	}
	if err != nil {
		return nil, err
	}
	if !account.IsUsable() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("courier account for %s is inactive or not connected", account.CourierType))
	}
	return account, nil
}

func (s *ShipmentService) resolvePickupAddress(override *AddressRequest, settings courier.AccountSettings) (valueobject.ContactAddress, error) {
	if override != nil {
		return toContactAddress(override)
	}
	if settings.DefaultPickup != nil {
		p := settings.DefaultPickup
		addr, err := valueobject.NewContactAddress(p.Name, p.Phone, p.Address, p.City, p.State, p.Pincode)
		if err != nil {
			return valueobject.ContactAddress{}, shared.NewDomainError("INVALID_STATE",
				"courier account default pickup address is invalid: "+err.Error())
		}
		return addr.WithEmail(p.Email), nil
	}
	return valueobject.ContactAddress{}, shared.NewDomainError("INVALID_INPUT",
		"no pickup address: provide pickup_override or configure a default on the courier account")
}

// snapshotItems copies order lines onto the shipment. With no explicit
// selection the whole order ships.
func (s *ShipmentService) snapshotItems(shipment *shipping.Shipment, o *order.Order, requested []CreateShipmentItemRequest) {
	if len(requested) > 0 {
		for _, item := range requested {
			shipment.AddItem(item.OrderItemID, item.Sku, item.Name, item.Quantity)
		}
		return
	}
	for i := range o.Items {
		itemID := o.Items[i].ID
		shipment.AddItem(&itemID, o.Items[i].Sku, o.Items[i].Name, o.Items[i].Quantity)
	}
}

func (s *ShipmentService) buildBookingRequest(o *order.Order, shipment *shipping.Shipment, settings courier.AccountSettings) courier.CreateShipmentRequest {
	req := courier.CreateShipmentRequest{
		OrderID:        o.ID.String(),
		OrderNumber:    o.OrderNumber,
		Pickup:         contactPoint(shipment.PickupAddress),
		Delivery:       contactPoint(shipment.DeliveryAddress),
		IsCOD:          shipment.IsCOD,
		CODAmount:      shipment.CODAmount.Amount(),
		DeclaredValue:  o.TotalAmount.Amount(),
		ServiceCode:    settings.ServiceCode,
		PickupLocation: settings.PickupLocation,
	}
	if !shipment.Dimensions.IsZero() {
		req.WeightKg = shipment.Dimensions.WeightKg()
		req.LengthCm = shipment.Dimensions.LengthCm()
		req.WidthCm = shipment.Dimensions.WidthCm()
		req.HeightCm = shipment.Dimensions.HeightCm()
	} else {
		req.WeightKg = defaultWeightKg
	}
	for _, item := range shipment.Items {
		reqItem := courier.RequestItem{
			Sku:      item.Sku,
			Name:     item.Name,
			Quantity: item.Quantity,
		}
		if item.OrderItemID != nil {
			if orderItem := o.FindItem(*item.OrderItemID); orderItem != nil {
				reqItem.UnitPrice = orderItem.UnitPrice.Amount()
			}
		}
		req.Items = append(req.Items, reqItem)
	}
	return req
}

func toContactAddress(a *AddressRequest) (valueobject.ContactAddress, error) {
	addr, err := valueobject.NewContactAddress(a.Name, a.Phone, a.AddressLine, a.City, a.State, a.Pincode)
	if err != nil {
		return valueobject.ContactAddress{}, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return addr.WithEmail(a.Email).WithLandmark(a.Landmark), nil
}

func contactPoint(a valueobject.ContactAddress) courier.ContactPoint {
	return courier.ContactPoint{
		Name:    a.Name(),
		Phone:   a.Phone(),
		Email:   a.Email(),
		Address: a.FullAddress(),
		City:    a.City(),
		State:   a.State(),
		Pincode: a.Pincode(),
	}
}
