package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/order"
	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shipping"
)

type mockShipmentRepository struct {
	mock.Mock
}

func (m *mockShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipment), args.Error(1)
}

func (m *mockShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.Shipment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Shipment), args.Error(1)
}

func (m *mockShipmentRepository) Save(ctx context.Context, s *shipping.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*shipping.Shipment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipment), args.Error(1)
}

func (m *mockShipmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]shipping.Shipment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Shipment), args.Error(1)
}

func (m *mockShipmentRepository) FindByShipmentNumber(ctx context.Context, tenantID uuid.UUID, shipmentNumber string) (*shipping.Shipment, error) {
	args := m.Called(ctx, tenantID, shipmentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipment), args.Error(1)
}

func (m *mockShipmentRepository) FindByAWB(ctx context.Context, tenantID uuid.UUID, awbNumber string) (*shipping.Shipment, error) {
	args := m.Called(ctx, tenantID, awbNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipment), args.Error(1)
}

func (m *mockShipmentRepository) FindActiveByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*shipping.Shipment, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipment), args.Error(1)
}

func (m *mockShipmentRepository) SaveWithLock(ctx context.Context, s *shipping.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockShipmentRepository) GenerateShipmentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) UpdateStatusIf(ctx context.Context, tenantID, id uuid.UUID, expected []order.OrderStatus, next order.OrderStatus) error {
	return m.Called(ctx, tenantID, id, expected, next).Error(0)
}

func (m *mockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*courier.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *mockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]courier.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Account), args.Error(1)
}

func (m *mockAccountRepository) Save(ctx context.Context, a *courier.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*courier.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *mockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]courier.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Account), args.Error(1)
}

func (m *mockAccountRepository) FindActiveByType(ctx context.Context, tenantID uuid.UUID, courierType courier.CourierType) (*courier.Account, error) {
	args := m.Called(ctx, tenantID, courierType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *mockAccountRepository) SaveWithLock(ctx context.Context, a *courier.Account) error {
	return m.Called(ctx, a).Error(0)
}

type mockProvider struct {
	mock.Mock
	courierType courier.CourierType
}

func (m *mockProvider) Type() courier.CourierType {
	return m.courierType
}

func (m *mockProvider) ValidateCredentials(ctx context.Context, creds courier.Credentials) error {
	return m.Called(ctx, creds).Error(0)
}

func (m *mockProvider) CreateShipment(ctx context.Context, creds courier.Credentials, req courier.CreateShipmentRequest) (*courier.CreateShipmentResult, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.CreateShipmentResult), args.Error(1)
}

func (m *mockProvider) CheckServiceability(ctx context.Context, creds courier.Credentials, req courier.ServiceabilityRequest) ([]courier.Quote, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Quote), args.Error(1)
}

func (m *mockProvider) GenerateAWB(ctx context.Context, creds courier.Credentials, externalShipmentID, courierID string) (*courier.AWBResult, error) {
	args := m.Called(ctx, creds, externalShipmentID, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.AWBResult), args.Error(1)
}

type stubRegistry struct {
	providers map[courier.CourierType]courier.Provider
}

func (r *stubRegistry) Get(courierType courier.CourierType) (courier.Provider, error) {
	p, ok := r.providers[courierType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "no provider for "+string(courierType))
	}
	return p, nil
}

func (r *stubRegistry) Types() []courier.CourierType {
	types := make([]courier.CourierType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	return types
}

type stubQuoteCache struct {
	entries map[string][]courier.Quote
	sets    int
	hits    int
}

func newStubQuoteCache() *stubQuoteCache {
	return &stubQuoteCache{entries: make(map[string][]courier.Quote)}
}

func (c *stubQuoteCache) Get(ctx context.Context, key string) ([]courier.Quote, bool) {
	quotes, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return quotes, ok
}

func (c *stubQuoteCache) Set(ctx context.Context, key string, quotes []courier.Quote, ttl time.Duration) {
	c.entries[key] = quotes
	c.sets++
}
